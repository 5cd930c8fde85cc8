package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/drivedesk/drivedesk-api/internal/models"
)

// ErrLessonSlotTaken is returned when the partial unique index on
// (instructor_id, start_at) rejects a second non-declined lesson for the same
// slot. The index is the storage-level guard that closes the check-then-act
// race between two concurrent bookings.
var ErrLessonSlotTaken = errors.New("lesson slot already taken")

// LessonRepository provides database access for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new instance of LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

const lessonColumns = `id, student_id, instructor_id, start_at, end_at, status, cancelled_at, cancelled_by, created_at, updated_at`

// FindByID returns a lesson by identifier.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1 LIMIT 1`, lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lesson by id: %w", err)
	}
	return &lesson, nil
}

// ListByInstructorAndRange returns an instructor's non-declined lessons whose
// start falls in [from, to).
func (r *LessonRepository) ListByInstructorAndRange(ctx context.Context, instructorID string, from, to time.Time) ([]models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE instructor_id = $1 AND start_at >= $2 AND start_at < $3 AND status <> $4 ORDER BY start_at`, lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, instructorID, from, to, models.LessonStatusDeclined); err != nil {
		return nil, fmt.Errorf("list lessons by instructor: %w", err)
	}
	return lessons, nil
}

// ListByStudentAndRange returns a student's non-declined lessons whose start
// falls in [from, to).
func (r *LessonRepository) ListByStudentAndRange(ctx context.Context, studentID string, from, to time.Time) ([]models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE student_id = $1 AND start_at >= $2 AND start_at < $3 AND status <> $4 ORDER BY start_at`, lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, studentID, from, to, models.LessonStatusDeclined); err != nil {
		return nil, fmt.Errorf("list lessons by student: %w", err)
	}
	return lessons, nil
}

// List returns lessons based on filters with total count.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	baseQuery := `FROM lessons WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("start_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_at < $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if len(filter.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)+1))
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY start_at LIMIT %d OFFSET %d", lessonColumns, baseQuery, pageSize, offset)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	return lessons, total, nil
}

// Create inserts a new lesson. A unique violation on the active-slot index is
// mapped to ErrLessonSlotTaken.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, student_id, instructor_id, start_at, end_at, status, created_at, updated_at) VALUES (:id, :student_id, :instructor_id, :start_at, :end_at, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrLessonSlotTaken
		}
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// UpdateStatus transitions a lesson's status, recording cancellation metadata
// when the transition is a decline.
func (r *LessonRepository) UpdateStatus(ctx context.Context, id string, status models.LessonStatus, cancelledBy *string, cancelledAt *time.Time) error {
	const query = `UPDATE lessons SET status = $2, cancelled_by = $3, cancelled_at = $4, updated_at = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, cancelledBy, cancelledAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
