package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/scheduling"
	"github.com/drivedesk/drivedesk-api/pkg/config"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type availabilityLessonRepository interface {
	ListByInstructorAndRange(ctx context.Context, instructorID string, from, to time.Time) ([]models.Lesson, error)
	ListByStudentAndRange(ctx context.Context, studentID string, from, to time.Time) ([]models.Lesson, error)
}

type availabilityBlockedSlotRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.BlockedSlot, error)
}

type settingsRepository interface {
	GetInstructorSettings(ctx context.Context, instructorID string) (*models.InstructorSettings, error)
	GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// Reasons a slot check can fail. A failed check is a normal domain outcome,
// not an error.
const (
	ReasonStudentQuota    = "STUDENT_QUOTA_EXHAUSTED"
	ReasonInstructorQuota = "INSTRUCTOR_QUOTA_EXHAUSTED"
	ReasonOutsideWork     = "OUTSIDE_WORKING_HOURS"
	ReasonDayNotBookable  = "DAY_NOT_BOOKABLE"
	ReasonBlocked         = "BLOCKED"
	ReasonLessonOverlap   = "LESSON_OVERLAP"
)

// SlotCheck is the outcome of validating one concrete slot for one student.
type SlotCheck struct {
	Available  bool                           `json:"available"`
	Reason     string                         `json:"reason,omitempty"`
	Student    scheduling.StudentAllowance    `json:"student"`
	Instructor scheduling.InstructorAllowance `json:"instructor"`
}

// AvailabilityService computes disabled days, free slots and slot validity
// for students. All decisions are made against the student's assigned
// instructor; a student without training data cannot see or book anything.
type AvailabilityService struct {
	lessons  availabilityLessonRepository
	blocked  availabilityBlockedSlotRepository
	settings settingsRepository
	holidays scheduling.HolidaySource
	booking  config.BookingConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewAvailabilityService creates an instance of AvailabilityService.
func NewAvailabilityService(
	lessons availabilityLessonRepository,
	blocked availabilityBlockedSlotRepository,
	settings settingsRepository,
	holidays scheduling.HolidaySource,
	booking config.BookingConfig,
	logger *zap.Logger,
) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		lessons:  lessons,
		blocked:  blocked,
		settings: settings,
		holidays: holidays,
		booking:  booking,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source anchoring the booking window. Tests use
// it to pin the window to a fixed day.
func (s *AvailabilityService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// BookingWindow returns the [from, to] day range students may currently book
// in, anchored at the given instant.
func (s *AvailabilityService) BookingWindow(now time.Time) (time.Time, time.Time) {
	from := scheduling.DayStart(now)
	return from, from.AddDate(0, 0, s.booking.WindowDays)
}

// DisabledDays returns all non-bookable days in the window: weekends, public
// holidays, and days of the touched months outside the window.
func (s *AvailabilityService) DisabledDays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	days, err := scheduling.DisabledDays(ctx, s.holidays, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute disabled days")
	}
	return days, nil
}

// dayBookable reports whether lessons may be booked on a day at all: it must
// fall inside the current booking window and not be in the disabled set.
func (s *AvailabilityService) dayBookable(ctx context.Context, day time.Time) (bool, error) {
	from, to := s.BookingWindow(s.now())
	dayStart := scheduling.DayStart(day)
	if dayStart.Before(from) || dayStart.After(to) {
		return false, nil
	}
	disabled, err := s.DisabledDays(ctx, from, to)
	if err != nil {
		return false, err
	}
	return scheduling.IsBookableDay(day, disabled), nil
}

// dayContext bundles everything needed to decide availability on one day.
type dayContext struct {
	profile           models.StudentProfile
	settings          models.InstructorSettings
	instructorLessons []models.Lesson
	studentLessons    []models.Lesson
	blockedRanges     []scheduling.TimeRange
	workStart         int
	workEnd           int
}

func (s *AvailabilityService) loadDayContext(ctx context.Context, studentID string, day time.Time) (*dayContext, error) {
	profile, err := s.settings.GetStudentProfile(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoTrainingData, "no training profile for student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}

	settings, err := s.settings.GetInstructorSettings(ctx, profile.InstructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoTrainingData, "no settings for assigned instructor")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor settings")
	}

	workStart, err := scheduling.ParseClock(settings.WorkStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid instructor work start")
	}
	workEnd, err := scheduling.ParseClock(settings.WorkEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid instructor work end")
	}

	dayStart := scheduling.DayStart(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	instructorLessons, err := s.lessons.ListByInstructorAndRange(ctx, profile.InstructorID, dayStart, dayEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor lessons")
	}
	studentLessons, err := s.lessons.ListByStudentAndRange(ctx, studentID, dayStart, dayEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student lessons")
	}

	blockedSlots, err := s.blocked.ListByInstructor(ctx, profile.InstructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocked slots")
	}

	return &dayContext{
		profile:           *profile,
		settings:          *settings,
		instructorLessons: instructorLessons,
		studentLessons:    studentLessons,
		blockedRanges:     scheduling.ExpandAllOn(blockedSlots, day),
		workStart:         workStart,
		workEnd:           workEnd,
	}, nil
}

// SlotsForDay returns the bookable slots for a student on one day. A day that
// is not bookable (weekend, holiday, outside the booking window) and an
// exhausted daily quota both yield an empty result rather than an error.
func (s *AvailabilityService) SlotsForDay(ctx context.Context, studentID string, day time.Time) ([]scheduling.Slot, error) {
	dc, err := s.loadDayContext(ctx, studentID, day)
	if err != nil {
		return nil, err
	}

	bookable, err := s.dayBookable(ctx, day)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return []scheduling.Slot{}, nil
	}

	duration := s.booking.DefaultSlotDuration
	studentAllowance := scheduling.StudentLimits(dc.profile, dc.settings, dc.studentLessons, day)
	instructorAllowance := scheduling.InstructorLimits(dc.settings, dc.instructorLessons, day)
	if studentAllowance.RemainingLessons <= 0 || instructorAllowance.RemainingMinutes < int(duration.Minutes()) {
		return []scheduling.Slot{}, nil
	}

	lessonRanges := make([]scheduling.TimeRange, 0, len(dc.instructorLessons))
	for _, lesson := range dc.instructorLessons {
		lessonRanges = append(lessonRanges, scheduling.TimeRange{Start: lesson.StartAt, End: lesson.EndAt})
	}

	search := scheduling.SlotSearch{
		WorkStart:    scheduling.AtClock(day, dc.workStart),
		WorkEnd:      scheduling.AtClock(day, dc.workEnd),
		SlotDuration: duration,
		Blocked:      dc.blockedRanges,
		Lessons:      lessonRanges,
		WaitingTime:  time.Duration(dc.profile.WaitingTimeAfterLesson) * time.Minute,
	}
	return scheduling.FindSlots(search), nil
}

// CheckSlot validates a concrete slot for a student: quotas, working hours,
// bookable day, blocked ranges and existing lessons. A slot that fails any
// check returns Available=false with the first failing reason.
func (s *AvailabilityService) CheckSlot(ctx context.Context, studentID string, slot scheduling.TimeRange) (*SlotCheck, error) {
	if !slot.Start.Before(slot.End) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot start must be before end")
	}

	day := slot.Start
	dc, err := s.loadDayContext(ctx, studentID, day)
	if err != nil {
		return nil, err
	}

	check := &SlotCheck{
		Student:    scheduling.StudentLimits(dc.profile, dc.settings, dc.studentLessons, day),
		Instructor: scheduling.InstructorLimits(dc.settings, dc.instructorLessons, day),
	}
	fail := func(reason string) (*SlotCheck, error) {
		check.Reason = reason
		return check, nil
	}

	if check.Student.RemainingLessons <= 0 {
		return fail(ReasonStudentQuota)
	}
	if check.Instructor.RemainingMinutes < int(slot.Duration().Minutes()) {
		return fail(ReasonInstructorQuota)
	}

	if scheduling.ClockMinutes(slot.Start) < dc.workStart || scheduling.ClockMinutes(slot.End) > dc.workEnd {
		return fail(ReasonOutsideWork)
	}

	bookable, err := s.dayBookable(ctx, day)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return fail(ReasonDayNotBookable)
	}

	for _, blocked := range dc.blockedRanges {
		if slot.OverlapsSameDay(blocked) {
			return fail(ReasonBlocked)
		}
	}

	for _, lesson := range append(dc.instructorLessons, dc.studentLessons...) {
		if lesson.Status == models.LessonStatusDeclined {
			continue
		}
		if slot.OverlapsSameDay(scheduling.TimeRange{Start: lesson.StartAt, End: lesson.EndAt}) {
			return fail(ReasonLessonOverlap)
		}
	}

	check.Available = true
	return check, nil
}
