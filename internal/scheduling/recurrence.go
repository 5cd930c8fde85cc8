package scheduling

import (
	"time"

	"github.com/drivedesk/drivedesk-api/internal/models"
)

// ExpandOn materializes a blocked slot for a single target day. The second
// return value is false when the rule does not apply on that day. Expansion
// preserves the anchor's time-of-day and duration.
func ExpandOn(slot models.BlockedSlot, day time.Time) (TimeRange, bool) {
	anchor := TimeRange{Start: slot.StartAt, End: slot.EndAt}

	switch slot.Recurrence {
	case models.RecurrenceNever:
		// Date-level containment within the anchor, not just time-of-day.
		dayStart := DayStart(day)
		if dayStart.Before(slot.EndAt) && !dayStart.Before(DayStart(slot.StartAt)) {
			return anchor.OnDay(day), true
		}
		return TimeRange{}, false
	case models.RecurrenceDaily:
		return anchor.OnDay(day), true
	case models.RecurrenceWeekly:
		if day.Weekday() == slot.StartAt.Weekday() {
			return anchor.OnDay(day), true
		}
		return TimeRange{}, false
	case models.RecurrenceMonthly:
		if day.Day() == slot.StartAt.Day() {
			return anchor.OnDay(day), true
		}
		return TimeRange{}, false
	case models.RecurrenceYearly:
		if day.Day() == slot.StartAt.Day() && day.Month() == slot.StartAt.Month() {
			return anchor.OnDay(day), true
		}
		return TimeRange{}, false
	default:
		return TimeRange{}, false
	}
}

// ExpandRange materializes a blocked slot over a window of days, inclusive of
// both bounds. Overlapping occurrences are not deduplicated: downstream slot
// search only asks whether a time is covered by any blocked range.
func ExpandRange(slot models.BlockedSlot, from, to time.Time) []TimeRange {
	var occurrences []TimeRange
	for day := DayStart(from); !day.After(DayStart(to)); day = day.AddDate(0, 0, 1) {
		if occ, ok := ExpandOn(slot, day); ok {
			occurrences = append(occurrences, occ)
		}
	}
	return occurrences
}

// ExpandAllOn materializes every blocked slot of a set for a single day.
func ExpandAllOn(slots []models.BlockedSlot, day time.Time) []TimeRange {
	var occurrences []TimeRange
	for _, slot := range slots {
		if occ, ok := ExpandOn(slot, day); ok {
			occurrences = append(occurrences, occ)
		}
	}
	return occurrences
}
