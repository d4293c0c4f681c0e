// Package notify publishes projection changes over NATS.
//
// It provides the concrete change-notification channel of the engine:
// every projection a task's controller computes is mirrored into a
// JetStream KV bucket (so UI processes can read "who is responsible"
// without touching the engine), and a small change event is published on a
// per-task subject for live refresh. Delivery is best-effort — the engine
// logs publish failures and continues; the mirror is a read optimization,
// not the source of truth.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/ansonyc/rota/types"
)

// Sentinel errors returned by the Publisher.
var (
	// ErrPublishFailed is returned when mirroring or event publishing fails.
	ErrPublishFailed = errors.New("failed to publish projection")

	// ErrProjectionNotFound is returned when no mirrored projection exists
	// for the task.
	ErrProjectionNotFound = errors.New("projection not found")
)

// Config configures the NATS subjects and bucket used by the Publisher.
type Config struct {
	// SubjectPrefix is the prefix for change event subjects; events are
	// published on "<SubjectPrefix>.<taskID>". Default: "rota.projection".
	SubjectPrefix string `yaml:"subjectPrefix"`

	// Bucket is the JetStream KV bucket name for projection mirrors.
	// Default: "rota-projections".
	Bucket string `yaml:"bucket"`
}

// SetDefaults applies default values for unset fields.
func (c *Config) SetDefaults() {
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = "rota.projection"
	}
	if c.Bucket == "" {
		c.Bucket = "rota-projections"
	}
}

// ChangeEvent is the payload published on the change subject after a
// recomputation that altered a task's projection.
type ChangeEvent struct {
	// TaskID identifies the task whose projection changed.
	TaskID string `json:"taskId"`

	// From is the global number of the first recomputed occurrence.
	From int64 `json:"from"`

	// Epoch is the ledger epoch of the new projection.
	Epoch int64 `json:"epoch"`
}

// Publisher mirrors projections to JetStream KV and emits change events.
//
// Task IDs are used directly as KV keys and subject tokens, so they must be
// valid NATS subject tokens (no spaces, dots, or wildcards).
type Publisher struct {
	nc            *nats.Conn
	kv            jetstream.KeyValue
	subjectPrefix string
	logger        types.Logger
}

// Compile-time assertion that Publisher implements ProjectionSink.
var _ types.ProjectionSink = (*Publisher)(nil)

// New creates a publisher and ensures the mirror bucket exists.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - nc: Connected NATS client
//   - cfg: Publisher configuration (nil uses defaults)
//   - logger: Logger for publish failures
//
// Returns:
//   - *Publisher: Ready publisher
//   - error: JetStream or bucket creation error
//
// Example:
//
//	pub, err := notify.New(ctx, nc, nil, logger)
//	if err != nil { /* handle */ }
//	eng, err := rota.New(&cfg, src, rota.WithSink(pub))
func New(ctx context.Context, nc *nats.Conn, cfg *Config, logger types.Logger) (*Publisher, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.SetDefaults()

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "rota projection mirrors",
	})
	if err != nil {
		return nil, fmt.Errorf("create KV bucket %q: %w", cfg.Bucket, err)
	}

	return &Publisher{
		nc:            nc,
		kv:            kv,
		subjectPrefix: cfg.SubjectPrefix,
		logger:        logger,
	}, nil
}

// PublishProjection mirrors the projection into the KV bucket and publishes
// a ChangeEvent on "<SubjectPrefix>.<taskID>".
//
// Returns:
//   - error: ErrPublishFailed (wrapped) on marshal, KV, or publish failure
func (p *Publisher) PublishProjection(ctx context.Context, projection types.Projection) error {
	data, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("marshal projection for task %q: %w: %w", projection.TaskID, ErrPublishFailed, err)
	}

	if _, err := p.kv.Put(ctx, projection.TaskID, data); err != nil {
		return fmt.Errorf("mirror projection for task %q: %w: %w", projection.TaskID, ErrPublishFailed, err)
	}

	event, err := json.Marshal(ChangeEvent{
		TaskID: projection.TaskID,
		From:   projection.From,
		Epoch:  projection.Epoch,
	})
	if err != nil {
		return fmt.Errorf("marshal change event for task %q: %w: %w", projection.TaskID, ErrPublishFailed, err)
	}

	subject := p.subjectPrefix + "." + projection.TaskID
	if err := p.nc.Publish(subject, event); err != nil {
		return fmt.Errorf("publish change event on %q: %w: %w", subject, ErrPublishFailed, err)
	}

	p.logger.Debug("projection published",
		"task_id", projection.TaskID, "epoch", projection.Epoch, "assignments", len(projection.Assignments))

	return nil
}

// GetProjection reads a task's mirrored projection from the KV bucket.
//
// Returns:
//   - types.Projection: The last mirrored projection
//   - error: ErrProjectionNotFound (wrapped) when no mirror exists
func (p *Publisher) GetProjection(ctx context.Context, taskID string) (types.Projection, error) {
	entry, err := p.kv.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return types.Projection{}, fmt.Errorf("task %q: %w", taskID, ErrProjectionNotFound)
		}
		return types.Projection{}, fmt.Errorf("read projection for task %q: %w", taskID, err)
	}

	var projection types.Projection
	if err := json.Unmarshal(entry.Value(), &projection); err != nil {
		return types.Projection{}, fmt.Errorf("unmarshal projection for task %q: %w", taskID, err)
	}

	return projection, nil
}
