package models

import "time"

// LessonStatus represents the lifecycle state of a driving lesson.
type LessonStatus string

const (
	LessonStatusRequested LessonStatus = "REQUESTED"
	LessonStatusConfirmed LessonStatus = "CONFIRMED"
	LessonStatusDeclined  LessonStatus = "DECLINED"
)

// Lesson represents a driving lesson stored in the lessons table. Declined
// lessons no longer occupy the calendar and are excluded from overlap and
// quota checks.
type Lesson struct {
	ID           string       `db:"id" json:"id"`
	StudentID    string       `db:"student_id" json:"student_id"`
	InstructorID string       `db:"instructor_id" json:"instructor_id"`
	StartAt      time.Time    `db:"start_at" json:"start_at"`
	EndAt        time.Time    `db:"end_at" json:"end_at"`
	Status       LessonStatus `db:"status" json:"status"`
	CancelledAt  *time.Time   `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy  *string      `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// DurationMinutes returns the lesson length in whole minutes.
func (l Lesson) DurationMinutes() int {
	return int(l.EndAt.Sub(l.StartAt).Minutes())
}

// LessonFilter captures filtering criteria for listing lessons.
type LessonFilter struct {
	InstructorID string
	StudentID    string
	From         *time.Time
	To           *time.Time
	Statuses     []LessonStatus
	Page         int
	PageSize     int
}
