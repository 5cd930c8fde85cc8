package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/drivedesk/drivedesk-api/internal/models"
)

// SettingsRepository provides database access for instructor settings and
// student training profiles.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetInstructorSettings returns the quota configuration for an instructor.
func (r *SettingsRepository) GetInstructorSettings(ctx context.Context, instructorID string) (*models.InstructorSettings, error) {
	const query = `SELECT instructor_id, work_start, work_end, daily_driving_minutes, max_default_lessons, max_extensive_lessons, max_exam_preparation_lessons, updated_at FROM instructor_settings WHERE instructor_id = $1 LIMIT 1`
	var settings models.InstructorSettings
	if err := r.db.GetContext(ctx, &settings, query, instructorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get instructor settings: %w", err)
	}
	return &settings, nil
}

// UpsertInstructorSettings stores the quota configuration for an instructor.
func (r *SettingsRepository) UpsertInstructorSettings(ctx context.Context, settings *models.InstructorSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO instructor_settings (instructor_id, work_start, work_end, daily_driving_minutes, max_default_lessons, max_extensive_lessons, max_exam_preparation_lessons, updated_at)
		VALUES (:instructor_id, :work_start, :work_end, :daily_driving_minutes, :max_default_lessons, :max_extensive_lessons, :max_exam_preparation_lessons, :updated_at)
		ON CONFLICT (instructor_id) DO UPDATE SET work_start = EXCLUDED.work_start, work_end = EXCLUDED.work_end, daily_driving_minutes = EXCLUDED.daily_driving_minutes, max_default_lessons = EXCLUDED.max_default_lessons, max_extensive_lessons = EXCLUDED.max_extensive_lessons, max_exam_preparation_lessons = EXCLUDED.max_exam_preparation_lessons, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert instructor settings: %w", err)
	}
	return nil
}

// GetStudentProfile returns the training profile for a student.
func (r *SettingsRepository) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	const query = `SELECT student_id, instructor_id, training_phase, waiting_time_after_lesson, updated_at FROM student_profiles WHERE student_id = $1 LIMIT 1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &profile, nil
}

// UpsertStudentProfile stores the training profile for a student.
func (r *SettingsRepository) UpsertStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO student_profiles (student_id, instructor_id, training_phase, waiting_time_after_lesson, updated_at)
		VALUES (:student_id, :instructor_id, :training_phase, :waiting_time_after_lesson, :updated_at)
		ON CONFLICT (student_id) DO UPDATE SET instructor_id = EXCLUDED.instructor_id, training_phase = EXCLUDED.training_phase, waiting_time_after_lesson = EXCLUDED.waiting_time_after_lesson, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert student profile: %w", err)
	}
	return nil
}
