package scheduling

import (
	"fmt"
	"time"
)

// Slot is a candidate bookable time range of fixed duration within an
// instructor's working hours. ID is derived from the slot boundaries so a
// previously offered slot can be re-selected idempotently across renders.
type Slot struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotSearch carries the inputs for one day of slot search. WorkStart and
// WorkEnd are instants on the target day; Blocked and Lessons are expected to
// be scoped to the same day (expanded blocked ranges, non-declined lessons).
type SlotSearch struct {
	WorkStart    time.Time
	WorkEnd      time.Time
	SlotDuration time.Duration
	Blocked      []TimeRange
	Lessons      []TimeRange
	WaitingTime  time.Duration
}

// FindSlots walks the working window in SlotDuration increments and returns
// every candidate that clears all blocked ranges and booked lessons.
//
// When both a blocked range and a lesson overlap the same candidate, the
// blocked range wins: the cursor jumps to the blocked range's end even if the
// lesson extends further, and a later iteration clears the lesson. The extra
// iteration is intentional; the walk is idempotent and eventually correct.
func FindSlots(search SlotSearch) []Slot {
	var slots []Slot
	if search.SlotDuration <= 0 || !search.WorkStart.Before(search.WorkEnd) {
		return slots
	}

	cursor := search.WorkStart
	for !cursor.After(search.WorkEnd) {
		candidate := TimeRange{Start: cursor, End: cursor.Add(search.SlotDuration)}

		blocked, hasBlocked := firstOverlap(candidate, search.Blocked)
		lesson, hasLesson := firstOverlap(candidate, search.Lessons)

		switch {
		case hasBlocked:
			next := AtClock(cursor, ClockMinutes(blocked.End))
			if !next.After(cursor) {
				// Overlap guarantees the block ends after the cursor
				// minute; guard against malformed input anyway.
				next = cursor.Add(search.SlotDuration)
			}
			cursor = next
		case hasLesson:
			next := AtClock(cursor, ClockMinutes(lesson.End)).Add(search.WaitingTime)
			if !next.After(cursor) {
				next = cursor.Add(search.SlotDuration)
			}
			cursor = next
		default:
			if !candidate.End.After(search.WorkEnd) {
				slots = append(slots, NewSlot(candidate.Start, candidate.End))
			}
			cursor = candidate.End
		}
	}
	return slots
}

// NewSlot builds a slot with its stable boundary-derived identity.
func NewSlot(start, end time.Time) Slot {
	return Slot{
		ID:    fmt.Sprintf("%s-%s", start.Format("20060102T1504"), end.Format("1504")),
		Start: start,
		End:   end,
	}
}

func firstOverlap(candidate TimeRange, ranges []TimeRange) (TimeRange, bool) {
	for _, r := range ranges {
		if candidate.OverlapsSameDay(r) {
			return r, true
		}
	}
	return TimeRange{}, false
}
