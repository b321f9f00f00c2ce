// Package tracing forwards per-call evaluation records to an external
// observability backend. Every sink is best effort: the experiment never
// fails because a trace could not be delivered.
package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voicejournal/promptlab/internal/models"
)

const (
	BackendNone = "none"
	BackendOpik = "opik"
	BackendOTel = "otel"
)

// Tracer receives one record per model call.
type Tracer interface {
	Trace(ctx context.Context, rec models.TraceRecord) error
	// Flush delivers anything buffered. Called once at the end of a run.
	Flush(ctx context.Context) error
}

// Noop discards every record.
type Noop struct{}

func (Noop) Trace(context.Context, models.TraceRecord) error { return nil }
func (Noop) Flush(context.Context) error                     { return nil }

type bestEffort struct {
	inner Tracer
}

// BestEffort wraps t so that errors and panics are logged and swallowed.
// A nil tracer becomes Noop.
func BestEffort(t Tracer) Tracer {
	if t == nil {
		return Noop{}
	}
	if _, ok := t.(*bestEffort); ok {
		return t
	}
	if _, ok := t.(Noop); ok {
		return t
	}
	return &bestEffort{inner: t}
}

func (b *bestEffort) Trace(ctx context.Context, rec models.TraceRecord) (err error) {
	defer b.recover("trace", &err)
	if err := b.inner.Trace(ctx, rec); err != nil {
		slog.Warn("trace logging failed", "name", rec.Name, "error", err)
	}
	return nil
}

func (b *bestEffort) Flush(ctx context.Context) (err error) {
	defer b.recover("flush", &err)
	if err := b.inner.Flush(ctx); err != nil {
		slog.Warn("trace flush failed", "error", err)
	}
	return nil
}

func (b *bestEffort) recover(op string, err *error) {
	if r := recover(); r != nil {
		slog.Warn("trace logger panicked", "op", op, "panic", fmt.Sprint(r))
		*err = nil
	}
}
