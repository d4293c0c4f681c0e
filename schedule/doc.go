// Package schedule maps a task's recurrence rule and start date to global
// occurrence numbers.
//
// The global occurrence number is a continuous, gap-free, 1-based integer
// sequence across all period boundaries: occurrence (date, index) has global
// number
//
//	g = fullPeriodsBetween(startDate, date) * rule.PerPeriod + index
//
// Both directions are provided: GlobalNumber for addressing a concrete
// occurrence, and KeyForGlobal for enumerating future occurrences during
// projection. All functions are pure and side-effect-free; they are called
// for historical and speculative future occurrences alike.
//
// Period anchoring: days are UTC civil days, weeks are ISO weeks starting
// Monday, months are calendar months. Periods are counted by boundary
// difference, so the sequence is independent of month and week lengths.
package schedule
