package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/drivedesk/drivedesk-api/internal/models"
)

// BlockedSlotRepository provides database access for blocked slots.
type BlockedSlotRepository struct {
	db *sqlx.DB
}

// NewBlockedSlotRepository creates a new instance of BlockedSlotRepository.
func NewBlockedSlotRepository(db *sqlx.DB) *BlockedSlotRepository {
	return &BlockedSlotRepository{db: db}
}

const blockedSlotColumns = `id, instructor_id, name, start_at, end_at, recurrence, created_at, updated_at`

// ListByInstructor returns all blocked slots owned by an instructor.
func (r *BlockedSlotRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.BlockedSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM blocked_slots WHERE instructor_id = $1 ORDER BY start_at`, blockedSlotColumns)
	var slots []models.BlockedSlot
	if err := r.db.SelectContext(ctx, &slots, query, instructorID); err != nil {
		return nil, fmt.Errorf("list blocked slots: %w", err)
	}
	return slots, nil
}

// FindByID returns a blocked slot by identifier.
func (r *BlockedSlotRepository) FindByID(ctx context.Context, id string) (*models.BlockedSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM blocked_slots WHERE id = $1 LIMIT 1`, blockedSlotColumns)
	var slot models.BlockedSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find blocked slot by id: %w", err)
	}
	return &slot, nil
}

// Create inserts a new blocked slot.
func (r *BlockedSlotRepository) Create(ctx context.Context, slot *models.BlockedSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO blocked_slots (id, instructor_id, name, start_at, end_at, recurrence, created_at, updated_at) VALUES (:id, :instructor_id, :name, :start_at, :end_at, :recurrence, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create blocked slot: %w", err)
	}
	return nil
}

// Update updates mutable fields of a blocked slot.
func (r *BlockedSlotRepository) Update(ctx context.Context, slot *models.BlockedSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blocked_slots SET name = :name, start_at = :start_at, end_at = :end_at, recurrence = :recurrence, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update blocked slot: %w", err)
	}
	return nil
}

// Delete removes a blocked slot.
func (r *BlockedSlotRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blocked_slots WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete blocked slot: %w", err)
	}
	return nil
}
