package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/internal/models"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type lessonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error)
	UpdateStatus(ctx context.Context, id string, status models.LessonStatus, cancelledBy *string, cancelledAt *time.Time) error
}

// LessonService handles lesson listing and lifecycle transitions. Lesson
// creation goes through the BookingService, which owns the availability
// validation.
type LessonService struct {
	repo   lessonRepository
	logger *zap.Logger
}

// NewLessonService creates an instance of LessonService.
func NewLessonService(repo lessonRepository, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{repo: repo, logger: logger}
}

// List returns paginated lessons and pagination metadata.
func (s *LessonService) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, *models.Pagination, error) {
	lessons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return lessons, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a lesson by ID.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// Confirm transitions a requested lesson to confirmed. Only lessons in the
// REQUESTED state can be confirmed.
func (s *LessonService) Confirm(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson.Status != models.LessonStatusRequested {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only requested lessons can be confirmed")
	}

	if err := s.repo.UpdateStatus(ctx, id, models.LessonStatusConfirmed, nil, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm lesson")
	}

	s.logger.Info("lesson confirmed", zap.String("lesson_id", id))
	lesson.Status = models.LessonStatusConfirmed
	return lesson, nil
}

// Decline transitions a requested lesson to declined, freeing its slot. Only
// lessons in the REQUESTED state can be declined; confirmed lessons are
// cancelled instead.
func (s *LessonService) Decline(ctx context.Context, id, byUserID string) (*models.Lesson, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson.Status != models.LessonStatusRequested {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only requested lessons can be declined")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, models.LessonStatusDeclined, &byUserID, &now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decline lesson")
	}

	s.logger.Info("lesson declined", zap.String("lesson_id", id), zap.String("by", byUserID))
	lesson.Status = models.LessonStatusDeclined
	lesson.CancelledBy = &byUserID
	lesson.CancelledAt = &now
	return lesson, nil
}

// Cancel declines a requested or confirmed lesson and records who cancelled
// it and when. Cancelled lessons no longer occupy the calendar.
func (s *LessonService) Cancel(ctx context.Context, id, byUserID string) (*models.Lesson, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson.Status == models.LessonStatusDeclined {
		return nil, appErrors.Clone(appErrors.ErrConflict, "lesson is already cancelled")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, models.LessonStatusDeclined, &byUserID, &now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel lesson")
	}

	s.logger.Info("lesson cancelled", zap.String("lesson_id", id), zap.String("by", byUserID))
	lesson.Status = models.LessonStatusDeclined
	lesson.CancelledBy = &byUserID
	lesson.CancelledAt = &now
	return lesson, nil
}
