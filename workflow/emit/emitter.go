// Package emit provides event emission and observability for workflow
// orchestration.
package emit

import "context"

// Emitter receives and processes observability events from the consumer and
// output processor.
//
// Emitters enable pluggable observability backends:
//   - Logging: stdout, files, syslog.
//   - Distributed tracing: OpenTelemetry, Jaeger, Zipkin.
//   - Metrics: Prometheus, StatsD.
//   - Analytics: DataDog, New Relic.
//
// Implementations should be:
//   - Non-blocking: avoid slowing down stream processing.
//   - Thread-safe: called concurrently across instances.
//   - Resilient: handle failures gracefully (don't crash the engine).
type Emitter interface {
	// Emit sends an observability event to the configured backend.
	//
	// Implementations should not block processing. If the backend is
	// unavailable or slow, events should be buffered, dropped with error
	// logging, or sent asynchronously. Emit should not panic.
	Emit(event Event)

	// EmitBatch sends multiple events in a single operation for improved
	// performance.
	//
	// Implementations should process events in order, not block
	// processing, and handle partial failures gracefully. Returns error
	// only on catastrophic failures (e.g. configuration errors).
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events are sent to the backend.
	//
	// Call this before process shutdown or at the end of a test to make
	// sure no events are lost. Safe to call multiple times.
	Flush(ctx context.Context) error
}
