package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeRange is a half-open interval [Start, End). It is used for lessons,
// blocked slots and candidate booking slots alike.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange validates the start < end invariant.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, fmt.Errorf("time range start %s must be before end %s", start, end)
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// ClockMinutes strips the date context from an instant and returns its
// minute-of-day (0..1439).
func ClockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// OverlapsSameDay reports whether two ranges overlap when compared at
// minute-of-day granularity. Dates are deliberately ignored: callers scope
// both sides to the same calendar day before comparing. Never use this for
// ranges spanning more than one day.
func (r TimeRange) OverlapsSameDay(other TimeRange) bool {
	return ClockMinutes(r.Start) < ClockMinutes(other.End) &&
		ClockMinutes(r.End) > ClockMinutes(other.Start)
}

// OnDay transplants the range's time-of-day onto another calendar day,
// preserving duration.
func (r TimeRange) OnDay(day time.Time) TimeRange {
	start := AtClock(day, ClockMinutes(r.Start))
	return TimeRange{Start: start, End: start.Add(r.Duration())}
}

// AtClock returns the instant at the given minute-of-day on the given day.
func AtClock(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// DayStart truncates an instant to midnight of its calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseClock parses a "HH:MM" time-of-day string into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
