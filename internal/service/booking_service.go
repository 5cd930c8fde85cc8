package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/repository"
	"github.com/drivedesk/drivedesk-api/internal/scheduling"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type slotChecker interface {
	CheckSlot(ctx context.Context, studentID string, slot scheduling.TimeRange) (*SlotCheck, error)
}

type lessonCreator interface {
	Create(ctx context.Context, lesson *models.Lesson) error
}

type studentProfileSource interface {
	GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// BookingService creates lessons. The slot validation and the insert run
// under a per-instructor mutex so two in-process requests for the same slot
// cannot both pass the check; across processes the partial unique index on
// (instructor_id, start_at) is the backstop.
type BookingService struct {
	checker  slotChecker
	lessons  lessonCreator
	profiles studentProfileSource
	logger   *zap.Logger

	locks sync.Map // instructorID -> *sync.Mutex
}

// NewBookingService creates an instance of BookingService.
func NewBookingService(checker slotChecker, lessons lessonCreator, profiles studentProfileSource, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{checker: checker, lessons: lessons, profiles: profiles, logger: logger}
}

func (s *BookingService) instructorLock(instructorID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(instructorID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Request books a slot on behalf of a student. The lesson starts in the
// REQUESTED state and waits for instructor confirmation.
func (s *BookingService) Request(ctx context.Context, studentID string, slot scheduling.TimeRange) (*models.Lesson, error) {
	return s.book(ctx, studentID, slot, models.LessonStatusRequested)
}

// Book creates a lesson added by the instructor. It is confirmed immediately
// but still has to clear the same availability checks as a student request.
func (s *BookingService) Book(ctx context.Context, studentID string, slot scheduling.TimeRange) (*models.Lesson, error) {
	return s.book(ctx, studentID, slot, models.LessonStatusConfirmed)
}

func (s *BookingService) book(ctx context.Context, studentID string, slot scheduling.TimeRange, status models.LessonStatus) (*models.Lesson, error) {
	profile, err := s.profiles.GetStudentProfile(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoTrainingData, "no training profile for student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}

	lock := s.instructorLock(profile.InstructorID)
	lock.Lock()
	defer lock.Unlock()

	check, err := s.checker.CheckSlot(ctx, studentID, slot)
	if err != nil {
		return nil, err
	}
	if !check.Available {
		switch check.Reason {
		case ReasonStudentQuota, ReasonInstructorQuota:
			return nil, appErrors.Clone(appErrors.ErrQuotaExhausted, "")
		case ReasonBlocked, ReasonLessonOverlap:
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		default:
			return nil, appErrors.Clone(appErrors.ErrConflict, "slot is not bookable: "+check.Reason)
		}
	}

	lesson := &models.Lesson{
		StudentID:    studentID,
		InstructorID: profile.InstructorID,
		StartAt:      slot.Start,
		EndAt:        slot.End,
		Status:       status,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		if errors.Is(err, repository.ErrLessonSlotTaken) {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}

	s.logger.Info("lesson booked",
		zap.String("lesson_id", lesson.ID),
		zap.String("student_id", studentID),
		zap.String("instructor_id", profile.InstructorID),
		zap.Time("start_at", lesson.StartAt),
		zap.String("status", string(lesson.Status)))
	return lesson, nil
}
