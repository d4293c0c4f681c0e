// Package hooks provides the default no-op Hooks implementation.
package hooks

import (
	"context"

	"github.com/ansonyc/rota/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default used when no custom hooks are provided, eliminating
// the need for nil checks throughout the engine.
type NopHooks struct{}

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnProjectionChanged: h.OnProjectionChanged,
		OnStateChanged:      h.OnStateChanged,
		OnError:             h.OnError,
	}
}

// OnProjectionChanged is a no-op implementation.
func (h *NopHooks) OnProjectionChanged(_ context.Context, _ string, _, _ int64) error {
	return nil
}

// OnStateChanged is a no-op implementation.
func (h *NopHooks) OnStateChanged(_ context.Context, _ string, _, _ types.ProjectionState) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
