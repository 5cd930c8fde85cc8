package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/repository"
	"github.com/drivedesk/drivedesk-api/internal/scheduling"
	"github.com/drivedesk/drivedesk-api/pkg/config"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

// bookingLessonStore is a concurrency-safe in-memory lesson store shared by
// the availability checker and the booking path, mimicking the database view
// both sides have in production.
type bookingLessonStore struct {
	mu      sync.Mutex
	lessons []models.Lesson
}

func (s *bookingLessonStore) snapshot() []models.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lesson, len(s.lessons))
	copy(out, s.lessons)
	return out
}

func (s *bookingLessonStore) ListByInstructorAndRange(_ context.Context, instructorID string, from, to time.Time) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range s.snapshot() {
		if l.InstructorID == instructorID && !l.StartAt.Before(from) && l.StartAt.Before(to) && l.Status != models.LessonStatusDeclined {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *bookingLessonStore) ListByStudentAndRange(_ context.Context, studentID string, from, to time.Time) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range s.snapshot() {
		if l.StudentID == studentID && !l.StartAt.Before(from) && l.StartAt.Before(to) && l.Status != models.LessonStatusDeclined {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *bookingLessonStore) Create(_ context.Context, lesson *models.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lesson.ID = fmt.Sprintf("lesson-%d", len(s.lessons)+1)
	s.lessons = append(s.lessons, *lesson)
	return nil
}

func bookingFixture(store *bookingLessonStore) (*BookingService, *fakeSettingsStore) {
	settings := &fakeSettingsStore{
		settings: map[string]*models.InstructorSettings{
			"instructor-1": {
				InstructorID:              "instructor-1",
				WorkStart:                 "08:00",
				WorkEnd:                   "17:00",
				DailyDrivingMinutes:       360,
				MaxDefaultLessons:         2,
				MaxExtensiveLessons:       3,
				MaxExamPreparationLessons: 1,
			},
		},
		profiles: map[string]*models.StudentProfile{
			"student-1": {StudentID: "student-1", InstructorID: "instructor-1", TrainingPhase: models.PhaseDefault, WaitingTimeAfterLesson: 15},
			"student-2": {StudentID: "student-2", InstructorID: "instructor-1", TrainingPhase: models.PhaseDefault, WaitingTimeAfterLesson: 15},
		},
	}
	availability := NewAvailabilityService(
		store,
		&fakeBlockedStore{},
		settings,
		&fakeHolidaySource{},
		config.BookingConfig{WindowDays: 14, DefaultSlotDuration: 90 * time.Minute},
		nil,
	)
	availability.SetClock(func() time.Time { return wednesday })
	return NewBookingService(availability, store, settings, nil), settings
}

func TestBookingRequest(t *testing.T) {
	store := &bookingLessonStore{}
	svc, _ := bookingFixture(store)

	lesson, err := svc.Request(context.Background(), "student-1", scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	})
	require.NoError(t, err)

	assert.Equal(t, models.LessonStatusRequested, lesson.Status)
	assert.Equal(t, "instructor-1", lesson.InstructorID)
	assert.Len(t, store.snapshot(), 1)
}

func TestBookingBookIsConfirmedImmediately(t *testing.T) {
	store := &bookingLessonStore{}
	svc, _ := bookingFixture(store)

	lesson, err := svc.Book(context.Background(), "student-1", scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	})
	require.NoError(t, err)
	assert.Equal(t, models.LessonStatusConfirmed, lesson.Status)
}

func TestBookingNoTrainingData(t *testing.T) {
	svc, _ := bookingFixture(&bookingLessonStore{})

	_, err := svc.Request(context.Background(), "unknown", scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoTrainingData.Code, appErrors.FromError(err).Code)
}

func TestBookingQuotaExhausted(t *testing.T) {
	store := &bookingLessonStore{lessons: []models.Lesson{
		{ID: "l1", StudentID: "student-1", InstructorID: "instructor-1", StartAt: scheduling.AtClock(wednesday, 8*60), EndAt: scheduling.AtClock(wednesday, 9*60+30), Status: models.LessonStatusConfirmed},
		{ID: "l2", StudentID: "student-1", InstructorID: "instructor-1", StartAt: scheduling.AtClock(wednesday, 13*60), EndAt: scheduling.AtClock(wednesday, 14*60+30), Status: models.LessonStatusConfirmed},
	}}
	svc, _ := bookingFixture(store)

	_, err := svc.Request(context.Background(), "student-1", scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrQuotaExhausted.Code, appErrors.FromError(err).Code)
}

func TestBookingOccupiedSlot(t *testing.T) {
	store := &bookingLessonStore{lessons: []models.Lesson{
		{ID: "l1", StudentID: "student-2", InstructorID: "instructor-1", StartAt: scheduling.AtClock(wednesday, 10*60), EndAt: scheduling.AtClock(wednesday, 11*60+30), Status: models.LessonStatusRequested},
	}}
	svc, _ := bookingFixture(store)

	_, err := svc.Request(context.Background(), "student-1", scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code)
}

// Two students race for the same slot; exactly one booking must succeed. The
// per-instructor lock serializes the check and the insert so the loser sees
// the winner's lesson.
func TestBookingConcurrentDoubleBooking(t *testing.T) {
	store := &bookingLessonStore{}
	svc, _ := bookingFixture(store)

	slot := scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, studentID := range []string{"student-1", "student-2"} {
		wg.Add(1)
		go func(i int, studentID string) {
			defer wg.Done()
			_, errs[i] = svc.Request(context.Background(), studentID, slot)
		}(i, studentID)
	}
	wg.Wait()

	var successes, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case appErrors.FromError(err).Code == appErrors.ErrSlotTaken.Code:
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, taken)
	assert.Len(t, store.snapshot(), 1)
}

type takenLessonCreator struct{}

func (takenLessonCreator) Create(context.Context, *models.Lesson) error {
	return repository.ErrLessonSlotTaken
}

// The storage-level unique index is the cross-process backstop; its violation
// surfaces as the same user-facing slot-taken error.
func TestBookingUniqueViolationMapsToSlotTaken(t *testing.T) {
	store := &bookingLessonStore{}
	_, settings := bookingFixture(store)

	availability := NewAvailabilityService(
		store,
		&fakeBlockedStore{},
		settings,
		&fakeHolidaySource{},
		config.BookingConfig{WindowDays: 14, DefaultSlotDuration: 90 * time.Minute},
		nil,
	)
	availability.SetClock(func() time.Time { return wednesday })
	svc := NewBookingService(availability, takenLessonCreator{}, settings, nil)

	_, err := svc.Request(context.Background(), "student-1", scheduling.TimeRange{
		Start: scheduling.AtClock(wednesday, 10*60),
		End:   scheduling.AtClock(wednesday, 11*60+30),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code)
}
