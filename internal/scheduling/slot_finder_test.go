package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daySearch(t *testing.T, workStart, workEnd string, duration time.Duration) SlotSearch {
	t.Helper()
	return SlotSearch{
		WorkStart:    at(t, "2024-06-04", workStart),
		WorkEnd:      at(t, "2024-06-04", workEnd),
		SlotDuration: duration,
	}
}

func TestFindSlotsEmptyCalendar(t *testing.T) {
	// Scenario: 08:00-12:00 window with 90 minute slots yields exactly two
	// slots; a third would end past the working window.
	search := daySearch(t, "08:00", "12:00", 90*time.Minute)
	slots := FindSlots(search)

	require.Len(t, slots, 2)
	assert.Equal(t, at(t, "2024-06-04", "08:00"), slots[0].Start)
	assert.Equal(t, at(t, "2024-06-04", "09:30"), slots[0].End)
	assert.Equal(t, at(t, "2024-06-04", "09:30"), slots[1].Start)
	assert.Equal(t, at(t, "2024-06-04", "11:00"), slots[1].End)
}

func TestFindSlotsTilesWorkWindow(t *testing.T) {
	// With no blockers the result tiles the window: contiguous,
	// non-overlapping, floor((end-start)/duration) slots.
	search := daySearch(t, "08:00", "17:00", 60*time.Minute)
	slots := FindSlots(search)

	require.Len(t, slots, 9)
	for i, slot := range slots {
		assert.Equal(t, search.WorkStart.Add(time.Duration(i)*time.Hour), slot.Start)
		assert.Equal(t, slot.Start.Add(time.Hour), slot.End)
	}
}

func TestFindSlotsSkipsLessonWithWaitingTime(t *testing.T) {
	// Scenario: lesson 09:00-10:30 plus 30 minutes waiting time pushes the
	// next candidate to 11:00.
	search := daySearch(t, "09:00", "14:00", 60*time.Minute)
	search.Lessons = []TimeRange{rng(t, "2024-06-04", "09:00", "10:30")}
	search.WaitingTime = 30 * time.Minute

	slots := FindSlots(search)
	require.NotEmpty(t, slots)
	assert.Equal(t, at(t, "2024-06-04", "11:00"), slots[0].Start)
}

func TestFindSlotsJumpsOverBlockedRange(t *testing.T) {
	search := daySearch(t, "08:00", "14:00", 60*time.Minute)
	search.Blocked = []TimeRange{rng(t, "2024-06-04", "08:30", "11:00")}

	slots := FindSlots(search)
	require.NotEmpty(t, slots)
	// The cursor jumps to the block's end in one step, not incrementally.
	assert.Equal(t, at(t, "2024-06-04", "11:00"), slots[0].Start)
}

func TestFindSlotsBlockedRangeTakesPrecedenceOverLesson(t *testing.T) {
	// Scenario: a block ending 12:00 and a lesson ending 12:30 both overlap
	// the 11:30 candidate. The block wins first, so the cursor lands on
	// 12:00, needs a second iteration to clear the lesson, and the first
	// free slot starts at the lesson's end.
	search := daySearch(t, "11:30", "15:00", 60*time.Minute)
	search.Blocked = []TimeRange{rng(t, "2024-06-04", "11:00", "12:00")}
	search.Lessons = []TimeRange{rng(t, "2024-06-04", "11:30", "12:30")}

	slots := FindSlots(search)
	require.NotEmpty(t, slots)
	assert.Equal(t, at(t, "2024-06-04", "12:30"), slots[0].Start)
}

func TestFindSlotsNeverOverlapsBlockers(t *testing.T) {
	search := daySearch(t, "07:00", "19:00", 45*time.Minute)
	search.Blocked = []TimeRange{
		rng(t, "2024-06-04", "08:10", "09:05"),
		rng(t, "2024-06-04", "12:00", "13:00"),
	}
	search.Lessons = []TimeRange{
		rng(t, "2024-06-04", "10:00", "11:30"),
		rng(t, "2024-06-04", "15:20", "16:40"),
	}
	search.WaitingTime = 15 * time.Minute

	slots := FindSlots(search)
	require.NotEmpty(t, slots)
	for _, slot := range slots {
		candidate := TimeRange{Start: slot.Start, End: slot.End}
		for _, blocked := range search.Blocked {
			assert.False(t, candidate.OverlapsSameDay(blocked), "slot %s overlaps block", slot.ID)
		}
		for _, lesson := range search.Lessons {
			assert.False(t, candidate.OverlapsSameDay(lesson), "slot %s overlaps lesson", slot.ID)
		}
		assert.False(t, slot.End.After(search.WorkEnd))
	}
}

func TestFindSlotsIsIdempotent(t *testing.T) {
	search := daySearch(t, "08:00", "17:00", 90*time.Minute)
	search.Blocked = []TimeRange{rng(t, "2024-06-04", "12:00", "13:00")}
	search.Lessons = []TimeRange{rng(t, "2024-06-04", "08:00", "09:30")}
	search.WaitingTime = 30 * time.Minute

	first := FindSlots(search)
	second := FindSlots(search)
	assert.Equal(t, first, second)
}

func TestFindSlotsDegenerateInputs(t *testing.T) {
	assert.Empty(t, FindSlots(SlotSearch{}))

	search := daySearch(t, "12:00", "12:00", 60*time.Minute)
	assert.Empty(t, FindSlots(search))

	search = daySearch(t, "08:00", "09:00", 0)
	assert.Empty(t, FindSlots(search))
}

func TestSlotIdentityStableAcrossRuns(t *testing.T) {
	a := NewSlot(at(t, "2024-06-04", "08:00"), at(t, "2024-06-04", "09:30"))
	b := NewSlot(at(t, "2024-06-04", "08:00"), at(t, "2024-06-04", "09:30"))
	c := NewSlot(at(t, "2024-06-05", "08:00"), at(t, "2024-06-05", "09:30"))

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}
