package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/scheduling"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type settingsWriter interface {
	GetInstructorSettings(ctx context.Context, instructorID string) (*models.InstructorSettings, error)
	UpsertInstructorSettings(ctx context.Context, settings *models.InstructorSettings) error
	GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	UpsertStudentProfile(ctx context.Context, profile *models.StudentProfile) error
}

// InstructorSettingsRequest is the payload for configuring an instructor.
type InstructorSettingsRequest struct {
	WorkStart                 string `json:"work_start" validate:"required"`
	WorkEnd                   string `json:"work_end" validate:"required"`
	DailyDrivingMinutes       int    `json:"daily_driving_minutes" validate:"required,min=1"`
	MaxDefaultLessons         int    `json:"max_default_lessons" validate:"required,min=1"`
	MaxExtensiveLessons       int    `json:"max_extensive_lessons" validate:"required,min=1"`
	MaxExamPreparationLessons int    `json:"max_exam_preparation_lessons" validate:"required,min=1"`
}

// StudentProfileRequest is the payload for configuring a student's training.
type StudentProfileRequest struct {
	InstructorID           string               `json:"instructor_id" validate:"required"`
	TrainingPhase          models.TrainingPhase `json:"training_phase" validate:"required,oneof=DEFAULT EXTENSIVE EXAM_PREPARATION"`
	WaitingTimeAfterLesson int                  `json:"waiting_time_after_lesson" validate:"min=0"`
}

// SettingsService manages instructor quota settings and student training
// profiles. Without this configuration a student cannot book at all.
type SettingsService struct {
	repo      settingsWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService creates an instance of SettingsService.
func NewSettingsService(repo settingsWriter, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger}
}

// GetInstructorSettings returns the configuration for one instructor.
func (s *SettingsService) GetInstructorSettings(ctx context.Context, instructorID string) (*models.InstructorSettings, error) {
	settings, err := s.repo.GetInstructorSettings(ctx, instructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor settings not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor settings")
	}
	return settings, nil
}

// PutInstructorSettings creates or replaces the configuration for an
// instructor.
func (s *SettingsService) PutInstructorSettings(ctx context.Context, instructorID string, req InstructorSettingsRequest) (*models.InstructorSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	workStart, err := scheduling.ParseClock(req.WorkStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid work_start, expected HH:MM")
	}
	workEnd, err := scheduling.ParseClock(req.WorkEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid work_end, expected HH:MM")
	}
	if workStart >= workEnd {
		return nil, appErrors.Clone(appErrors.ErrValidation, "work_start must be before work_end")
	}

	settings := &models.InstructorSettings{
		InstructorID:              instructorID,
		WorkStart:                 req.WorkStart,
		WorkEnd:                   req.WorkEnd,
		DailyDrivingMinutes:       req.DailyDrivingMinutes,
		MaxDefaultLessons:         req.MaxDefaultLessons,
		MaxExtensiveLessons:       req.MaxExtensiveLessons,
		MaxExamPreparationLessons: req.MaxExamPreparationLessons,
	}
	if err := s.repo.UpsertInstructorSettings(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store instructor settings")
	}

	s.logger.Info("instructor settings updated", zap.String("instructor_id", instructorID))
	return settings, nil
}

// GetStudentProfile returns the training profile for one student.
func (s *SettingsService) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := s.repo.GetStudentProfile(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	return profile, nil
}

// PutStudentProfile creates or replaces a student's training profile.
func (s *SettingsService) PutStudentProfile(ctx context.Context, studentID string, req StudentProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	profile := &models.StudentProfile{
		StudentID:              studentID,
		InstructorID:           req.InstructorID,
		TrainingPhase:          req.TrainingPhase,
		WaitingTimeAfterLesson: req.WaitingTimeAfterLesson,
	}
	if err := s.repo.UpsertStudentProfile(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store student profile")
	}

	s.logger.Info("student profile updated",
		zap.String("student_id", studentID),
		zap.String("instructor_id", req.InstructorID),
		zap.String("phase", string(req.TrainingPhase)))
	return profile, nil
}
