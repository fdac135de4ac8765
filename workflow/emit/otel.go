package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating OpenTelemetry spans.
//
// Each event becomes a span:
//   - Span name: event.Msg (e.g. "handler failed after claim"; empty for
//     the consumer's per-audit-event emissions)
//   - Attributes: workflowId, position, kind, and all event.Meta fields
//   - Status: set to error if event.Meta["error"] is present
//
// Usage:
//
//	tracer := otel.Tracer("workflow-go")
//	emitter := emit.NewOTelEmitter(tracer)
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter using tracer to start spans.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// NewTracerProvider builds a minimal SDK TracerProvider for processes that
// want OTelEmitter spans exported without standing up a full collector
// pipeline themselves (callers needing a real exporter should construct
// their own sdktrace.TracerProvider and pass its Tracer to NewOTelEmitter
// instead). Callers must call Shutdown on the returned provider before
// process exit to flush any registered span processors.
func NewTracerProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(opts...)
}

// Emit starts and immediately ends a span representing event.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()
	o.annotate(span, event)
}

// EmitBatch starts one span per event, in order.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Msg)
		o.annotate(span, event)
		span.End()
	}
	return nil
}

// Flush is a no-op: span export is the configured TracerProvider's
// responsibility, not this emitter's.
func (o *OTelEmitter) Flush(_ context.Context) error {
	return nil
}

func (o *OTelEmitter) annotate(span trace.Span, event Event) {
	attrs := []attribute.KeyValue{
		attribute.String("workflow.id", event.WorkflowId),
		attribute.Int("workflow.position", event.Position),
		attribute.String("workflow.kind", event.Kind),
	}
	for k, v := range event.Meta {
		attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", v)))
	}
	span.SetAttributes(attrs...)

	if errVal, ok := event.Meta["error"]; ok {
		span.SetStatus(codes.Error, fmt.Sprintf("%v", errVal))
	}
}
