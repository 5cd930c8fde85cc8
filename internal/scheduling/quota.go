package scheduling

import (
	"time"

	"github.com/drivedesk/drivedesk-api/internal/models"
)

// StudentAllowance is the outcome of the per-student quota check for one day.
type StudentAllowance struct {
	MaxLessons       int `json:"max_lessons"`
	BookedLessons    int `json:"booked_lessons"`
	RemainingLessons int `json:"remaining_lessons"`
}

// InstructorAllowance is the outcome of the per-instructor quota check for
// one day.
type InstructorAllowance struct {
	DailyMinutes     int `json:"daily_minutes"`
	BookedMinutes    int `json:"booked_minutes"`
	RemainingMinutes int `json:"remaining_minutes"`
}

// StudentLimits computes the remaining lesson allowance for a student on the
// given day. Only non-declined lessons of that student on that day count
// against the phase-specific cap.
func StudentLimits(profile models.StudentProfile, settings models.InstructorSettings, lessons []models.Lesson, day time.Time) StudentAllowance {
	max := settings.MaxLessonsFor(profile.TrainingPhase)
	booked := 0
	for _, lesson := range lessons {
		if lesson.Status == models.LessonStatusDeclined {
			continue
		}
		if lesson.StudentID != profile.StudentID || !SameDay(lesson.StartAt, day) {
			continue
		}
		booked++
	}
	return StudentAllowance{MaxLessons: max, BookedLessons: booked, RemainingLessons: max - booked}
}

// InstructorLimits computes the remaining driving minutes for an instructor
// on the given day from their non-declined lessons.
func InstructorLimits(settings models.InstructorSettings, lessons []models.Lesson, day time.Time) InstructorAllowance {
	booked := 0
	for _, lesson := range lessons {
		if lesson.Status == models.LessonStatusDeclined {
			continue
		}
		if lesson.InstructorID != settings.InstructorID || !SameDay(lesson.StartAt, day) {
			continue
		}
		booked += lesson.DurationMinutes()
	}
	return InstructorAllowance{
		DailyMinutes:     settings.DailyDrivingMinutes,
		BookedMinutes:    booked,
		RemainingMinutes: settings.DailyDrivingMinutes - booked,
	}
}
