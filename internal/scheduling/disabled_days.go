package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// HolidaySource provides public holidays for a date range. Implemented by the
// external holiday feed client; tests supply fakes.
type HolidaySource interface {
	PublicHolidays(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// DisabledDays returns the union of weekends, public holidays and days of the
// surrounding months that fall outside the booking window [from, to]. The
// result is sorted and duplicate-free, each entry truncated to midnight.
func DisabledDays(ctx context.Context, holidays HolidaySource, from, to time.Time) ([]time.Time, error) {
	from = DayStart(from)
	to = DayStart(to)
	if to.Before(from) {
		return nil, fmt.Errorf("disabled days: window end %s before start %s", to, from)
	}

	seen := make(map[string]time.Time)
	add := func(day time.Time) {
		day = DayStart(day)
		seen[day.Format("2006-01-02")] = day
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			add(day)
		}
	}

	publicHolidays, err := holidays.PublicHolidays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch public holidays: %w", err)
	}
	for _, day := range publicHolidays {
		add(day)
	}

	// Days of the months touched by the window that the window does not
	// cover are not bookable yet (or no longer).
	for _, month := range []time.Time{from, to} {
		first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
		for day := first; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
			if day.Before(from) || day.After(to) {
				add(day)
			}
		}
	}

	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// IsBookableDay reports whether a day is a valid booking target: a weekday
// that is not in the disabled set.
func IsBookableDay(day time.Time, disabled []time.Time) bool {
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return false
	}
	for _, d := range disabled {
		if SameDay(d, day) {
			return false
		}
	}
	return true
}

