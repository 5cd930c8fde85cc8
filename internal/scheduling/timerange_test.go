package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, day string, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	require.NoError(t, err)
	return ts
}

func rng(t *testing.T, day, start, end string) TimeRange {
	t.Helper()
	r, err := NewTimeRange(at(t, day, start), at(t, day, end))
	require.NoError(t, err)
	return r
}

func TestNewTimeRangeRejectsInvertedBounds(t *testing.T) {
	start := at(t, "2024-06-03", "10:00")
	_, err := NewTimeRange(start, start)
	assert.Error(t, err)
	_, err = NewTimeRange(start, start.Add(-time.Hour))
	assert.Error(t, err)
}

func TestOverlapsSameDay(t *testing.T) {
	a := rng(t, "2024-06-03", "08:00", "09:00")

	assert.True(t, a.OverlapsSameDay(rng(t, "2024-06-03", "08:30", "09:30")))
	assert.True(t, a.OverlapsSameDay(rng(t, "2024-06-03", "07:00", "10:00")))
	assert.True(t, a.OverlapsSameDay(rng(t, "2024-06-03", "08:15", "08:45")))

	// Touching half-open ranges do not overlap, in either direction.
	b := rng(t, "2024-06-03", "09:00", "10:00")
	assert.False(t, a.OverlapsSameDay(b))
	assert.False(t, b.OverlapsSameDay(a))
}

func TestOverlapsSameDayIgnoresDate(t *testing.T) {
	// Same clock times on different days still compare: that is the whole
	// point of the same-day mode, callers scope inputs to one day first.
	a := rng(t, "2024-06-03", "08:00", "09:00")
	b := rng(t, "2024-06-10", "08:30", "09:30")
	assert.True(t, a.OverlapsSameDay(b))
}

func TestOverlapsSameDayDisjointSymmetry(t *testing.T) {
	a := rng(t, "2024-06-03", "06:00", "07:00")
	b := rng(t, "2024-06-03", "07:00", "08:00")
	c := rng(t, "2024-06-03", "09:15", "11:45")
	for _, later := range []TimeRange{b, c} {
		assert.False(t, a.OverlapsSameDay(later))
		assert.False(t, later.OverlapsSameDay(a))
	}
}

func TestOnDayPreservesClockAndDuration(t *testing.T) {
	r := rng(t, "2024-06-03", "12:00", "13:30")
	moved := r.OnDay(at(t, "2024-07-19", "00:00"))
	assert.Equal(t, at(t, "2024-07-19", "12:00"), moved.Start)
	assert.Equal(t, at(t, "2024-07-19", "13:30"), moved.End)
	assert.Equal(t, r.Duration(), moved.Duration())
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, minutes)
	assert.Equal(t, "08:30", FormatClock(minutes))

	for _, invalid := range []string{"", "8", "25:00", "12:60", "ab:cd", "12-30"} {
		_, err := ParseClock(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 0, ClockMinutes(at(t, "2024-06-03", "00:00")))
	assert.Equal(t, 23*60+59, ClockMinutes(at(t, "2024-06-03", "23:59")))
}
