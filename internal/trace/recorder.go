// Package trace records panel lifecycle activity three ways: OpenTelemetry
// spans around plugin construction and teardown, a bounded in-memory event
// log the UI displays, and structured log lines.
package trace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Attribute keys on lifecycle spans.
const (
	AttrPanelID       = attribute.Key("mapdeck.panel.id")
	AttrInstance      = attribute.Key("mapdeck.panel.instance")
	AttrRemoveSources = attribute.Key("mapdeck.remove_sources")
)

// Recorder fans lifecycle events out to a tracer, an event log and a
// logger. A nil *Recorder is valid and records nothing.
type Recorder struct {
	tracer oteltrace.Tracer
	log    *EventLog
	logger *zap.Logger
}

// NewRecorder wires a recorder. Any argument may be nil.
func NewRecorder(tp oteltrace.TracerProvider, log *EventLog, logger *zap.Logger) *Recorder {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		tracer: tp.Tracer("mapdeck/panel"),
		log:    log,
		logger: logger,
	}
}

// Logger returns the recorder's logger, never nil.
func (r *Recorder) Logger() *zap.Logger {
	if r == nil || r.logger == nil {
		return zap.NewNop()
	}
	return r.logger
}

// Log returns the event log, which may be nil.
func (r *Recorder) Log() *EventLog {
	if r == nil {
		return nil
	}
	return r.log
}

// Event appends to the event log.
func (r *Recorder) Event(panelID string, typ EventType, detail string) {
	if r == nil || r.log == nil {
		return
	}
	r.log.Append(Event{PanelID: panelID, Type: typ, Detail: detail})
}

// Start opens a span. The returned func ends it, recording err if non-nil.
func (r *Recorder) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if r == nil {
		return ctx, func(error) {}
	}
	ctx, span := r.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
