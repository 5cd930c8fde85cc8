package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/internal/models"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type blockedSlotRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.BlockedSlot, error)
	FindByID(ctx context.Context, id string) (*models.BlockedSlot, error)
	Create(ctx context.Context, slot *models.BlockedSlot) error
	Update(ctx context.Context, slot *models.BlockedSlot) error
	Delete(ctx context.Context, id string) error
}

// BlockedSlotRequest is the payload for creating or updating a blocked slot.
type BlockedSlotRequest struct {
	Name       string            `json:"name" validate:"required"`
	StartAt    time.Time         `json:"start_at" validate:"required"`
	EndAt      time.Time         `json:"end_at" validate:"required"`
	Recurrence models.Recurrence `json:"recurrence" validate:"required"`
}

// BlockedSlotService manages instructor unavailability periods.
type BlockedSlotService struct {
	repo      blockedSlotRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlockedSlotService creates an instance of BlockedSlotService.
func NewBlockedSlotService(repo blockedSlotRepository, validate *validator.Validate, logger *zap.Logger) *BlockedSlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BlockedSlotService{repo: repo, validator: validate, logger: logger}
}

func (s *BlockedSlotService) validateRequest(req BlockedSlotRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid blocked slot payload")
	}
	if !req.StartAt.Before(req.EndAt) {
		return appErrors.Clone(appErrors.ErrValidation, "start must be before end")
	}
	if !req.Recurrence.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown recurrence")
	}
	return nil
}

// ListForInstructor returns all blocked slots owned by an instructor.
func (s *BlockedSlotService) ListForInstructor(ctx context.Context, instructorID string) ([]models.BlockedSlot, error) {
	slots, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocked slots")
	}
	return slots, nil
}

// Get returns a blocked slot by ID.
func (s *BlockedSlotService) Get(ctx context.Context, id string) (*models.BlockedSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blocked slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocked slot")
	}
	return slot, nil
}

// Create adds a blocked slot for an instructor.
func (s *BlockedSlotService) Create(ctx context.Context, instructorID string, req BlockedSlotRequest) (*models.BlockedSlot, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	slot := &models.BlockedSlot{
		InstructorID: instructorID,
		Name:         req.Name,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		Recurrence:   req.Recurrence,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create blocked slot")
	}

	s.logger.Info("blocked slot created",
		zap.String("blocked_slot_id", slot.ID),
		zap.String("instructor_id", instructorID),
		zap.String("recurrence", string(slot.Recurrence)))
	return slot, nil
}

// Update modifies an existing blocked slot. The owning instructor cannot be
// changed.
func (s *BlockedSlotService) Update(ctx context.Context, id string, req BlockedSlotRequest) (*models.BlockedSlot, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	slot.Name = req.Name
	slot.StartAt = req.StartAt
	slot.EndAt = req.EndAt
	slot.Recurrence = req.Recurrence

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update blocked slot")
	}
	return slot, nil
}

// Delete removes a blocked slot.
func (s *BlockedSlotService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blocked slot")
	}
	return nil
}
