package rota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	nophooks "github.com/ansonyc/rota/internal/hooks"
	"github.com/ansonyc/rota/internal/ledger"
	"github.com/ansonyc/rota/internal/logging"
	nopmetrics "github.com/ansonyc/rota/internal/metrics"
	"github.com/ansonyc/rota/internal/projection"
	"github.com/ansonyc/rota/schedule"
	"github.com/ansonyc/rota/strategy"
	"github.com/ansonyc/rota/types"
)

// Engine is the rotation controller: it owns every task's completion ledger
// and projection cache and coordinates when projections are recomputed.
//
// All methods are safe for concurrent use. Tasks are independent; operations
// on different tasks proceed in parallel, while operations on the same task
// serialize under a per-task lock.
type Engine struct {
	cfg       Config
	source    types.TaskSource
	sink      types.ProjectionSink
	logger    types.Logger
	metrics   types.MetricsCollector
	hooks     types.Hooks
	now       func() time.Time
	projector *projection.Projector

	tasks *xsync.Map[string, *taskState]
}

// taskState bundles one task's rotation state. All fields behind mu.
type taskState struct {
	mu        sync.Mutex
	ledger    *ledger.Ledger
	cache     *projection.Cache
	state     types.ProjectionState
	staleFrom int64 // first invalidated global number; 0 when fresh
}

// New creates a rotation engine.
//
// Parameters:
//   - cfg: Engine configuration (nil uses defaults)
//   - src: Task source resolving task IDs to definitions (required)
//   - opts: Functional options
//
// Returns:
//   - *Engine: Ready engine
//   - error: ErrTaskSourceRequired, ErrStrategyRequired, or ErrInvalidConfig
//
// Example:
//
//	eng, err := rota.New(&rota.Config{Horizon: 14}, src,
//	    rota.WithLogger(logger),
//	    rota.WithStrategy(strategy.NewFairRotation()),
//	)
func New(cfg *Config, src types.TaskSource, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, types.ErrTaskSourceRequired
	}

	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{
		logger:   logging.NewSlogDefault(),
		hooks:    nophooks.NewNop(),
		metrics:  nopmetrics.NewNop(),
		strategy: strategy.NewFairRotation(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.strategy == nil {
		return nil, types.ErrStrategyRequired
	}

	return &Engine{
		cfg:       c,
		source:    src,
		sink:      options.sink,
		logger:    options.logger,
		metrics:   options.metrics,
		hooks:     options.hooks,
		now:       options.now,
		projector: projection.NewProjector(options.strategy, options.logger),
		tasks:     xsync.NewMap[string, *taskState](),
	}, nil
}

// RecordCompletion records that user completed the given occurrence.
//
// The record starts pending when requiresApproval is true and is approved
// immediately otherwise. Pending records count toward fairness right away.
//
// When the completing user matches the projected assignee for the occurrence
// the projection stays valid and nothing is recomputed. Any other completion
// bumps the ledger epoch and triggers a bounded recomputation from the
// completed occurrence forward.
//
// Parameters:
//   - ctx: Context for task resolution and notification
//   - taskID: Task identifier
//   - user: Completing user (must be on the task's user list)
//   - key: Occurrence being completed
//   - ts: Completion timestamp
//   - requiresApproval: Whether the record awaits an approval decision
//
// Returns:
//   - types.CompletionRecord: The stored record
//   - error: ErrUnknownTask, ErrUserNotAssigned, ErrInvalidOccurrence, or
//     ErrDuplicateCompletion
func (e *Engine) RecordCompletion(
	ctx context.Context,
	taskID string,
	user string,
	key types.OccurrenceKey,
	ts time.Time,
	requiresApproval bool,
) (types.CompletionRecord, error) {
	task, err := e.source.GetTask(ctx, taskID)
	if err != nil {
		return types.CompletionRecord{}, err
	}
	if len(task.Users) == 0 {
		return types.CompletionRecord{}, fmt.Errorf("task %q: %w", taskID, types.ErrNoAssignableUsers)
	}
	if task.UserIndex(user) < 0 {
		return types.CompletionRecord{}, fmt.Errorf("user %q on task %q: %w", user, taskID, types.ErrUserNotAssigned)
	}

	g, err := schedule.GlobalNumber(task.Rule, task.StartDate, key)
	if err != nil {
		return types.CompletionRecord{}, err
	}

	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	rec, err := st.ledger.Record(user, key, g, ts)
	if err != nil {
		return types.CompletionRecord{}, err
	}
	if !requiresApproval {
		rec, err = st.ledger.Approve(rec.ID)
		if err != nil {
			return types.CompletionRecord{}, err
		}
	}

	expected := st.state == types.StateFresh && st.cache.Epoch() == st.ledger.Epoch()
	if expected {
		a, ok := st.cache.Lookup(g)
		expected = ok && a.User == user
	}
	e.metrics.RecordCompletion(expected)
	e.recordLedgerSizes(taskID, st)

	if expected {
		e.logger.Debug("expected completion recorded",
			"task_id", taskID, "user", user, "occurrence", key.String(), "global", g)
		return rec, nil
	}

	st.ledger.BumpEpoch()
	e.markStale(ctx, taskID, st, g)
	if err := e.recomputeNow(ctx, task, st, "unexpected_completion"); err != nil {
		// The record stands; the task stays stale and the next lookup
		// retries the recomputation.
		e.logger.Error("recomputation after completion failed", "task_id", taskID, "error", err)
		e.reportError(ctx, err)
	}

	return rec, nil
}

// Approve moves a pending completion record into the baseline.
//
// The record was already counting toward fairness while pending, so approval
// never invalidates the projection and never triggers a recomputation.
//
// Returns:
//   - types.CompletionRecord: The record after the transition
//   - error: ErrUnknownRecord or ErrRecordNotPending
func (e *Engine) Approve(ctx context.Context, taskID string, recordID int64) (types.CompletionRecord, error) {
	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	rec, err := st.ledger.Approve(recordID)
	if err != nil {
		return types.CompletionRecord{}, err
	}

	e.metrics.RecordDecision(true)
	e.recordLedgerSizes(taskID, st)
	e.logger.Debug("completion approved", "task_id", taskID, "record_id", recordID, "user", rec.User)

	return rec, nil
}

// Reject rejects a pending completion record.
//
// The record drops out of the provisional view but is retained for audit
// with the supplied reason. Rejection bumps the ledger epoch and triggers a
// bounded recomputation from the rejected occurrence forward; the rejected
// user is never handed that occurrence back.
//
// Returns:
//   - types.CompletionRecord: The record after the transition
//   - error: ErrUnknownTask, ErrNoAssignableUsers, ErrUnknownRecord, or
//     ErrRecordNotPending
func (e *Engine) Reject(ctx context.Context, taskID string, recordID int64, reason string) (types.CompletionRecord, error) {
	task, err := e.source.GetTask(ctx, taskID)
	if err != nil {
		return types.CompletionRecord{}, err
	}
	if len(task.Users) == 0 {
		return types.CompletionRecord{}, fmt.Errorf("task %q: %w", taskID, types.ErrNoAssignableUsers)
	}

	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	rec, err := st.ledger.Reject(recordID, reason)
	if err != nil {
		return types.CompletionRecord{}, err
	}

	e.metrics.RecordDecision(false)
	e.recordLedgerSizes(taskID, st)

	st.ledger.BumpEpoch()
	e.markStale(ctx, taskID, st, rec.Global)
	if err := e.recomputeNow(ctx, task, st, "rejection"); err != nil {
		e.logger.Error("recomputation after rejection failed", "task_id", taskID, "error", err)
		e.reportError(ctx, err)
	}

	return rec, nil
}

// GetAssignment returns the assignment for one occurrence.
//
// Occurrences in periods before the current one are historical: they are
// served from the cache as-is and never trigger a recomputation; a cache
// miss yields ErrNoProjection. Current and future occurrences refresh a
// stale projection first and extend coverage as needed, up to MaxHorizon
// occurrences past the first unfulfilled one.
//
// Returns:
//   - types.Assignment: The cached or freshly computed assignment
//   - error: ErrUnknownTask, ErrInvalidOccurrence, ErrBeyondHorizon,
//     ErrNoProjection, or ErrNoAssignableUsers
func (e *Engine) GetAssignment(ctx context.Context, taskID string, key types.OccurrenceKey) (types.Assignment, error) {
	task, err := e.source.GetTask(ctx, taskID)
	if err != nil {
		return types.Assignment{}, err
	}

	g, err := schedule.GlobalNumber(task.Rule, task.StartDate, key)
	if err != nil {
		return types.Assignment{}, err
	}

	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if e.isHistorical(task, g) {
		if a, ok := st.cache.Lookup(g); ok {
			return a, nil
		}
		if rec, ok := st.ledger.ActiveForOccurrence(g); ok {
			return types.Assignment{}, fmt.Errorf("occurrence %s of task %q was completed by %q: %w",
				key, taskID, rec.User, types.ErrNoProjection)
		}
		return types.Assignment{}, fmt.Errorf("occurrence %s of task %q: %w", key, taskID, types.ErrNoProjection)
	}

	if len(task.Users) == 0 {
		return types.Assignment{}, fmt.Errorf("task %q: %w", taskID, types.ErrNoAssignableUsers)
	}

	anchor := st.ledger.FirstUnfulfilled()
	if g >= anchor+int64(e.cfg.MaxHorizon) {
		return types.Assignment{}, fmt.Errorf("occurrence %s of task %q is more than %d occurrences ahead: %w",
			key, taskID, e.cfg.MaxHorizon, types.ErrBeyondHorizon)
	}

	if err := e.ensureCovered(ctx, task, st, g); err != nil {
		return types.Assignment{}, err
	}

	if a, ok := st.cache.Lookup(g); ok {
		return a, nil
	}
	if rec, ok := st.ledger.ActiveForOccurrence(g); ok {
		return types.Assignment{}, fmt.Errorf("occurrence %s of task %q was completed by %q: %w",
			key, taskID, rec.User, types.ErrNoProjection)
	}

	return types.Assignment{}, fmt.Errorf("occurrence %s of task %q: %w", key, taskID, types.ErrNoProjection)
}

// ProjectAhead returns assignments for the next horizon unfulfilled
// occurrences, starting at the first unfulfilled one.
//
// A non-positive horizon uses the configured default; a horizon above
// MaxHorizon is truncated to it, never an error. A fresh projection with
// sufficient coverage is served from the cache unchanged, so repeated calls
// yield identical results.
//
// Returns:
//   - []types.Assignment: Assignments in increasing global order
//   - error: ErrUnknownTask or ErrNoAssignableUsers
func (e *Engine) ProjectAhead(ctx context.Context, taskID string, horizon int) ([]types.Assignment, error) {
	task, err := e.source.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(task.Users) == 0 {
		return nil, fmt.Errorf("task %q: %w", taskID, types.ErrNoAssignableUsers)
	}

	if horizon <= 0 {
		horizon = e.cfg.Horizon
	}
	if horizon > e.cfg.MaxHorizon {
		horizon = e.cfg.MaxHorizon
	}

	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	anchor := st.ledger.FirstUnfulfilled()
	fresh := st.state == types.StateFresh && st.cache.Epoch() == st.ledger.Epoch()
	if !fresh || e.coverage(st, anchor) < horizon {
		h := horizon
		if h < e.cfg.Horizon {
			h = e.cfg.Horizon
		}
		if err := e.recompute(ctx, task, st, e.recomputeFrom(st), h, "project"); err != nil {
			return nil, err
		}
	}

	out := make([]types.Assignment, 0, horizon)
	for _, a := range st.cache.Snapshot() {
		if a.Global < anchor {
			continue
		}
		out = append(out, a)
		if len(out) == horizon {
			break
		}
	}

	return out, nil
}

// State returns the task's current projection state.
func (e *Engine) State(taskID string) types.ProjectionState {
	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.state
}

// Epoch returns the task's current ledger epoch.
func (e *Engine) Epoch(taskID string) int64 {
	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.ledger.Epoch()
}

// Records returns every completion record for the task in insertion order,
// including rejected ones, for audit listing.
func (e *Engine) Records(taskID string) []types.CompletionRecord {
	st := e.stateFor(taskID)
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.ledger.Records()
}

func (e *Engine) stateFor(taskID string) *taskState {
	if st, ok := e.tasks.Load(taskID); ok {
		return st
	}

	st, _ := e.tasks.LoadOrStore(taskID, &taskState{
		ledger: ledger.New(),
		cache:  projection.NewCache(),
		state:  types.StateFresh,
	})

	return st
}

// isHistorical reports whether the occurrence belongs to a period strictly
// before the one containing the current time.
func (e *Engine) isHistorical(task types.Task, g int64) bool {
	gNow, err := schedule.GlobalNumber(task.Rule, task.StartDate, types.NewOccurrenceKey(e.now(), 1))
	if err != nil {
		// The current time precedes the task's start; nothing is historical.
		return false
	}

	return g < gNow
}

// ensureCovered makes the cache fresh and covering global number g,
// recomputing with an extended horizon when g lies past default coverage.
// The caller holds st.mu and has already bounded g against MaxHorizon.
func (e *Engine) ensureCovered(ctx context.Context, task types.Task, st *taskState, g int64) error {
	covered := func() bool {
		if _, done := st.ledger.ActiveForOccurrence(g); done {
			return true
		}
		_, ok := st.cache.Lookup(g)
		return ok
	}
	if st.state == types.StateFresh && st.cache.Epoch() == st.ledger.Epoch() && covered() {
		return nil
	}

	from := e.recomputeFrom(st)
	horizon := e.cfg.Horizon
	if need := int(g - from + 1); need > horizon {
		horizon = need
	}
	if horizon > e.cfg.MaxHorizon {
		horizon = e.cfg.MaxHorizon
	}

	return e.recompute(ctx, task, st, from, horizon, "lookup")
}

// recomputeFrom returns the starting global number for the next
// recomputation: the first invalidated occurrence when stale, pulled back to
// any earlier coverage hole so assignments stay gap-free. A completion
// recorded before anything was projected leaves occurrences below it neither
// cached nor resolved; starting at staleFrom alone would never fill them.
func (e *Engine) recomputeFrom(st *taskState) int64 {
	from := e.firstHole(st)
	if st.state == types.StateStale && st.staleFrom > 0 && st.staleFrom < from {
		from = st.staleFrom
	}

	return from
}

// firstHole returns the smallest global number that is neither resolved by
// an active completion nor present in the cache.
func (e *Engine) firstHole(st *taskState) int64 {
	g := st.ledger.FirstUnfulfilled()
	for {
		if _, ok := st.cache.Lookup(g); ok {
			g++
			continue
		}
		if _, done := st.ledger.ActiveForOccurrence(g); done {
			g++
			continue
		}
		return g
	}
}

func (e *Engine) recomputeNow(ctx context.Context, task types.Task, st *taskState, reason string) error {
	return e.recompute(ctx, task, st, e.recomputeFrom(st), e.cfg.Horizon, reason)
}

// recompute runs the projector and installs the result, replacing cached
// entries from the starting occurrence forward. On success the task becomes
// fresh; on failure the previous cache contents are left untouched and the
// task's state is unchanged.
func (e *Engine) recompute(ctx context.Context, task types.Task, st *taskState, from int64, horizon int, reason string) error {
	start := time.Now()
	epoch := st.ledger.Epoch()

	assignments, err := e.projector.Project(task, st.ledger, st.cache, from, horizon, epoch)
	if err != nil {
		return err
	}

	before := st.cache.Checksum()
	st.cache.ReplaceFrom(epoch, from, assignments)
	after := st.cache.Checksum()

	e.metrics.RecordProjectionDuration(time.Since(start).Seconds(), reason)
	e.metrics.RecordProjectionSize(len(assignments))

	e.transition(ctx, task.ID, st, types.StateFresh)
	st.staleFrom = 0

	if after == before {
		e.metrics.RecordProjectionUnchanged()
		e.logger.Debug("projection unchanged", "task_id", task.ID, "from", from, "epoch", epoch, "reason", reason)
		return nil
	}

	e.notifyChanged(ctx, task.ID, st, from, epoch, after)

	return nil
}

// markStale transitions the task to stale and widens the invalidated range
// to include the given occurrence.
func (e *Engine) markStale(ctx context.Context, taskID string, st *taskState, from int64) {
	e.transition(ctx, taskID, st, types.StateStale)
	if st.staleFrom == 0 || from < st.staleFrom {
		st.staleFrom = from
	}
}

func (e *Engine) transition(ctx context.Context, taskID string, st *taskState, to types.ProjectionState) {
	if st.state == to {
		return
	}

	from := st.state
	st.state = to
	e.metrics.RecordStateTransition(taskID, from, to)
	e.logger.Debug("projection state changed", "task_id", taskID, "from", from.String(), "to", to.String())

	if e.hooks.OnStateChanged != nil {
		if err := e.hooks.OnStateChanged(ctx, taskID, from, to); err != nil {
			e.reportError(ctx, fmt.Errorf("state change hook for task %q: %w", taskID, err))
		}
	}
}

// notifyChanged dispatches the change hook and mirrors the new projection to
// the sink. Both are best-effort; failures are logged and reported, never
// returned.
func (e *Engine) notifyChanged(ctx context.Context, taskID string, st *taskState, from, epoch int64, checksum uint64) {
	e.logger.Info("projection changed",
		"task_id", taskID, "from", from, "epoch", epoch, "assignments", st.cache.Len())

	if e.hooks.OnProjectionChanged != nil {
		if err := e.hooks.OnProjectionChanged(ctx, taskID, from, epoch); err != nil {
			e.reportError(ctx, fmt.Errorf("projection change hook for task %q: %w", taskID, err))
		}
	}

	if e.sink == nil {
		return
	}
	p := types.Projection{
		TaskID:      taskID,
		Epoch:       epoch,
		From:        from,
		Assignments: st.cache.Snapshot(),
		Checksum:    checksum,
	}
	if err := e.sink.PublishProjection(ctx, p); err != nil {
		e.reportError(ctx, fmt.Errorf("publish projection for task %q: %w", taskID, err))
	}
}

// coverage counts cached assignments walking up from anchor, stopping at
// the first global number that is neither cached nor resolved. Entries past
// a hole don't count; serving them would skip unfulfilled occurrences. The
// caller holds st.mu.
func (e *Engine) coverage(st *taskState, anchor int64) int {
	n := 0
	for g := anchor; ; g++ {
		if _, ok := st.cache.Lookup(g); ok {
			n++
			continue
		}
		if _, done := st.ledger.ActiveForOccurrence(g); done {
			continue
		}
		return n
	}
}

func (e *Engine) recordLedgerSizes(taskID string, st *taskState) {
	baseline, pending := st.ledger.Sizes()
	e.metrics.RecordLedgerSize(taskID, baseline, pending)
}

func (e *Engine) reportError(ctx context.Context, err error) {
	e.logger.Warn("best-effort operation failed", "error", err)
	if e.hooks.OnError != nil {
		_ = e.hooks.OnError(ctx, err)
	}
}
