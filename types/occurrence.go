package types

import (
	"fmt"
	"time"
)

// OccurrenceKey identifies one scheduled instance of a recurring task.
//
// An occurrence is addressed by the civil date of its period and its 1-based
// index within that period. Occurrences are derived values: they are produced
// by the schedule package, never stored, and map bijectively to a global
// occurrence number for a given task.
type OccurrenceKey struct {
	// Date is the occurrence's civil date, normalized to UTC midnight.
	// For weekly and monthly rules any date inside the period addresses the
	// same period.
	Date time.Time `json:"date"`

	// Index is the 1-based slot within the period (1..PerPeriod).
	Index int `json:"index"`
}

// NewOccurrenceKey builds an occurrence key with the date normalized to a
// UTC civil day.
//
// Parameters:
//   - date: Any time within the desired day
//   - index: 1-based slot within the period
//
// Returns:
//   - OccurrenceKey: Normalized key
func NewOccurrenceKey(date time.Time, index int) OccurrenceKey {
	return OccurrenceKey{Date: CivilDay(date), Index: index}
}

// String returns the canonical textual form, e.g. "2024-01-02#1".
func (k OccurrenceKey) String() string {
	return fmt.Sprintf("%s#%d", k.Date.Format("2006-01-02"), k.Index)
}

// Equal reports whether two keys address the same occurrence slot.
//
// Dates compare by civil day, so keys built from times in different
// locations or with monotonic clock readings still compare correctly.
func (k OccurrenceKey) Equal(o OccurrenceKey) bool {
	return k.Index == o.Index && CivilDay(k.Date).Equal(CivilDay(o.Date))
}

// CivilDay truncates a time to its UTC civil day (midnight UTC).
//
// Parameters:
//   - t: Time to truncate
//
// Returns:
//   - time.Time: Midnight UTC of t's UTC calendar date
func CivilDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
