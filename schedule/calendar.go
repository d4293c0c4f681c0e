package schedule

import (
	"fmt"
	"time"

	"github.com/ansonyc/rota/types"
)

// GlobalNumber computes the global occurrence number for (date, index).
//
// The result is the count of all occurrences strictly before this one since
// the task's start date, plus the occurrence's 1-based index within its
// period.
//
// Parameters:
//   - rule: The task's recurrence rule
//   - start: The task's start date (any time within the start day)
//   - key: The occurrence to address
//
// Returns:
//   - int64: Global occurrence number (>= 1)
//   - error: types.ErrInvalidOccurrence (wrapped) when the rule is invalid,
//     the date precedes the start date, or the index is outside
//     1..rule.PerPeriod
func GlobalNumber(rule types.RecurrenceRule, start time.Time, key types.OccurrenceKey) (int64, error) {
	if err := rule.Validate(); err != nil {
		return 0, fmt.Errorf("rule {%s x%d}: %w", rule.Period, rule.PerPeriod, err)
	}
	if key.Index < 1 || key.Index > rule.PerPeriod {
		return 0, fmt.Errorf("index %d out of range 1..%d: %w", key.Index, rule.PerPeriod, types.ErrInvalidOccurrence)
	}

	startDay := types.CivilDay(start)
	day := types.CivilDay(key.Date)
	if day.Before(startDay) {
		return 0, fmt.Errorf("date %s before start %s: %w",
			day.Format("2006-01-02"), startDay.Format("2006-01-02"), types.ErrInvalidOccurrence)
	}

	periods := periodsBetween(rule.Period, startDay, day)

	return periods*int64(rule.PerPeriod) + int64(key.Index), nil
}

// KeyForGlobal computes the occurrence key for a global occurrence number.
//
// The returned key's date is the start of the occurrence's period (the start
// date itself for the first period), so KeyForGlobal and GlobalNumber
// round-trip:
//
//	g == GlobalNumber(rule, start, KeyForGlobal(rule, start, g))
//
// Parameters:
//   - rule: The task's recurrence rule
//   - start: The task's start date
//   - g: Global occurrence number (>= 1)
//
// Returns:
//   - types.OccurrenceKey: Occurrence key addressing g
//   - error: types.ErrInvalidOccurrence (wrapped) when the rule is invalid
//     or g < 1
func KeyForGlobal(rule types.RecurrenceRule, start time.Time, g int64) (types.OccurrenceKey, error) {
	if err := rule.Validate(); err != nil {
		return types.OccurrenceKey{}, fmt.Errorf("rule {%s x%d}: %w", rule.Period, rule.PerPeriod, err)
	}
	if g < 1 {
		return types.OccurrenceKey{}, fmt.Errorf("global number %d: %w", g, types.ErrInvalidOccurrence)
	}

	per := int64(rule.PerPeriod)
	periods := (g - 1) / per
	index := int((g-1)%per) + 1

	startDay := types.CivilDay(start)
	if periods == 0 {
		// Keep the start date itself so the key never precedes the task start.
		return types.OccurrenceKey{Date: startDay, Index: index}, nil
	}

	return types.OccurrenceKey{Date: addPeriods(rule.Period, startDay, periods), Index: index}, nil
}

// periodsBetween counts full period boundaries between two UTC civil days.
// Both arguments must already be civil days with a >= periodStart(b) never
// required; a <= b is assumed by the callers.
func periodsBetween(p types.Period, a, b time.Time) int64 {
	switch p {
	case types.PeriodWeekly:
		return daysBetween(weekStart(a), weekStart(b)) / 7
	case types.PeriodMonthly:
		return int64(b.Year()-a.Year())*12 + int64(b.Month()-a.Month())
	default:
		return daysBetween(a, b)
	}
}

// addPeriods returns the period start n periods after the period containing t.
func addPeriods(p types.Period, t time.Time, n int64) time.Time {
	switch p {
	case types.PeriodWeekly:
		return weekStart(t).AddDate(0, 0, int(n)*7)
	case types.PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(n), 0)
	default:
		return t.AddDate(0, 0, int(n))
	}
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// daysBetween returns whole days from a to b. Exact for UTC civil days.
func daysBetween(a, b time.Time) int64 {
	return int64(b.Sub(a) / (24 * time.Hour))
}
