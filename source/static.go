package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/ansonyc/rota/types"
)

// Static implements a task source with a fixed set of tasks.
type Static struct {
	mu    sync.RWMutex
	tasks map[string]types.Task
}

var _ types.TaskSource = (*Static)(nil)

// NewStatic creates a new static task source.
//
// The source serves a fixed set of tasks, keyed by task ID. Useful for
// testing and scenarios where tasks are known at startup.
//
// Parameters:
//   - tasks: Initial tasks
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(types.Task{
//	    ID:        "dishes",
//	    Users:     []string{"alice", "bob", "carol"},
//	    Rule:      types.RecurrenceRule{Period: types.PeriodDaily, PerPeriod: 1},
//	    StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
//	})
//	eng, err := rota.New(&cfg, src)
func NewStatic(tasks ...types.Task) *Static {
	s := &Static{tasks: make(map[string]types.Task, len(tasks))}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}

	return s
}

// GetTask returns the task with the given identifier.
//
// Returns:
//   - types.Task: Task snapshot
//   - error: types.ErrUnknownTask (wrapped) when no task has the identifier
func (s *Static) GetTask(_ context.Context, taskID string) (types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return types.Task{}, fmt.Errorf("task %q: %w", taskID, types.ErrUnknownTask)
	}

	return task, nil
}

// Put adds or replaces a task.
//
// This allows the static source to simulate task definition changes, which
// is useful for testing user-list and schedule updates.
func (s *Static) Put(task types.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = task
}
