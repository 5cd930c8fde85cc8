package models

import "time"

// TrainingPhase is a student's stage in their driving course. It determines
// the per-day lesson quota.
type TrainingPhase string

const (
	PhaseDefault         TrainingPhase = "DEFAULT"
	PhaseExtensive       TrainingPhase = "EXTENSIVE"
	PhaseExamPreparation TrainingPhase = "EXAM_PREPARATION"
)

// Valid reports whether the phase is a known kind.
func (p TrainingPhase) Valid() bool {
	switch p {
	case PhaseDefault, PhaseExtensive, PhaseExamPreparation:
		return true
	default:
		return false
	}
}

// InstructorSettings holds an instructor's working window and quota caps.
// WorkStart and WorkEnd are times of day in "HH:MM" form.
type InstructorSettings struct {
	InstructorID              string    `db:"instructor_id" json:"instructor_id"`
	WorkStart                 string    `db:"work_start" json:"work_start"`
	WorkEnd                   string    `db:"work_end" json:"work_end"`
	DailyDrivingMinutes       int       `db:"daily_driving_minutes" json:"daily_driving_minutes"`
	MaxDefaultLessons         int       `db:"max_default_lessons" json:"max_default_lessons"`
	MaxExtensiveLessons       int       `db:"max_extensive_lessons" json:"max_extensive_lessons"`
	MaxExamPreparationLessons int       `db:"max_exam_preparation_lessons" json:"max_exam_preparation_lessons"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}

// MaxLessonsFor returns the phase-specific daily lesson cap.
func (s InstructorSettings) MaxLessonsFor(phase TrainingPhase) int {
	switch phase {
	case PhaseExamPreparation:
		return s.MaxExamPreparationLessons
	case PhaseExtensive:
		return s.MaxExtensiveLessons
	default:
		return s.MaxDefaultLessons
	}
}

// StudentProfile holds a student's training configuration. A student without
// a profile has no training data and must not be able to book.
type StudentProfile struct {
	StudentID              string        `db:"student_id" json:"student_id"`
	InstructorID           string        `db:"instructor_id" json:"instructor_id"`
	TrainingPhase          TrainingPhase `db:"training_phase" json:"training_phase"`
	WaitingTimeAfterLesson int           `db:"waiting_time_after_lesson" json:"waiting_time_after_lesson"`
	UpdatedAt              time.Time     `db:"updated_at" json:"updated_at"`
}
