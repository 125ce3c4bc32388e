package audit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Recorder appends one audit record per entity mutation. It never manages
// transaction boundaries: the sink must belong to the transaction that
// carries the mutation so both commit or roll back together.
type Recorder struct {
	sink Sink
	now  func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates a recorder writing to sink.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{sink: sink, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordInsert logs the creation of e using its current state.
func (r *Recorder) RecordInsert(ctx context.Context, e Entity, actor, label string) error {
	if isNil(e) {
		return ErrNilEntity
	}
	return r.append(ctx, e, ActionInsert, nil, Capture(e), actor, label)
}

// RecordUpdate logs a change to e. prior must be captured before the new
// field values were applied.
func (r *Recorder) RecordUpdate(ctx context.Context, e Entity, prior Snapshot, actor, label string) error {
	if isNil(e) {
		return ErrNilEntity
	}
	return r.append(ctx, e, ActionUpdate, prior, Capture(e), actor, label)
}

// RecordDelete logs the removal of e. Call it before flipping the active
// flag so the record keeps the last live state.
func (r *Recorder) RecordDelete(ctx context.Context, e Entity, actor, label string) error {
	if isNil(e) {
		return ErrNilEntity
	}
	return r.append(ctx, e, ActionDelete, Capture(e), nil, actor, label)
}

func (r *Recorder) append(ctx context.Context, e Entity, action Action, before, after Snapshot, actor, label string) error {
	rec := &Record{
		TableName: e.TableName(),
		RowID:     RowID(e),
		Action:    action,
		OldData:   before,
		NewData:   after,
		Timestamp: r.now().UTC(),
		Actor:     ResolveActor(actor),
	}
	if label != "" {
		rec.Context = &label
	}
	if err := r.sink.AppendAudit(ctx, rec); err != nil {
		return fmt.Errorf("appending %s audit for %s/%s: %w", action, rec.TableName, rec.RowID, err)
	}
	return nil
}

// ResolveActor returns actor, or DefaultActor when it is blank.
func ResolveActor(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return DefaultActor
	}
	return actor
}
