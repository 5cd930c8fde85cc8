package models

import "time"

// Recurrence describes how a blocked slot repeats. The anchor range of the
// slot is the original occurrence; expansion transplants its time-of-day onto
// matching target days.
type Recurrence string

const (
	RecurrenceNever   Recurrence = "NEVER"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
	RecurrenceYearly  Recurrence = "YEARLY"
)

// Valid reports whether the recurrence is a known kind.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNever, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// BlockedSlot represents a period during which an instructor is unavailable,
// possibly recurring. The scheduling core only ever reads these.
type BlockedSlot struct {
	ID           string     `db:"id" json:"id"`
	InstructorID string     `db:"instructor_id" json:"instructor_id"`
	Name         string     `db:"name" json:"name"`
	StartAt      time.Time  `db:"start_at" json:"start_at"`
	EndAt        time.Time  `db:"end_at" json:"end_at"`
	Recurrence   Recurrence `db:"recurrence" json:"recurrence"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
