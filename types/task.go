package types

import "time"

// Period is the recurrence period of a task.
type Period int

const (
	// PeriodDaily recurs every UTC civil day.
	PeriodDaily Period = iota

	// PeriodWeekly recurs every ISO week (Monday through Sunday).
	PeriodWeekly

	// PeriodMonthly recurs every calendar month.
	PeriodMonthly
)

// String returns the string representation of the period.
func (p Period) String() string {
	switch p {
	case PeriodDaily:
		return "daily"
	case PeriodWeekly:
		return "weekly"
	case PeriodMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Valid reports whether the period is one of the defined constants.
func (p Period) Valid() bool {
	return p >= PeriodDaily && p <= PeriodMonthly
}

// RecurrenceRule describes how often a task recurs.
//
// A rule is a period type combined with the number of occurrences scheduled
// within each period. For example, {PeriodWeekly, 3} means three occurrences
// per ISO week.
type RecurrenceRule struct {
	// Period is the recurrence period (daily, weekly, monthly).
	Period Period `json:"period" yaml:"period"`

	// PerPeriod is the number of occurrences within each period (>= 1).
	PerPeriod int `json:"perPeriod" yaml:"perPeriod"`
}

// Validate checks that the rule is well-formed.
//
// Returns:
//   - error: ErrInvalidOccurrence (wrapped) if the period is unknown or
//     PerPeriod < 1, nil otherwise
func (r RecurrenceRule) Validate() error {
	if !r.Period.Valid() {
		return ErrInvalidOccurrence
	}
	if r.PerPeriod < 1 {
		return ErrInvalidOccurrence
	}

	return nil
}

// Task is a read-only snapshot of a recurring task shared by several users.
//
// Tasks are owned by the task-storage collaborator; the engine holds a
// snapshot per computation and never mutates it.
type Task struct {
	// ID uniquely identifies the task.
	ID string `json:"id"`

	// Users is the ordered list of assigned users. The order is the initial
	// join order and is immutable for the task's lifetime; it seeds the
	// rotation in balanced mode.
	Users []string `json:"users"`

	// Rule is the task's recurrence rule.
	Rule RecurrenceRule `json:"rule"`

	// StartDate is the first day the task is scheduled (UTC civil date).
	StartDate time.Time `json:"startDate"`
}

// UserIndex returns the initial-order index of the given user.
//
// Returns:
//   - int: Zero-based index, or -1 if the user is not assigned to the task
func (t Task) UserIndex(user string) int {
	for i, u := range t.Users {
		if u == user {
			return i
		}
	}

	return -1
}
