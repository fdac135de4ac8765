package emit

// Event represents an observability event emitted during workflow
// execution.
//
// Events provide insight into the orchestrator's behavior:
//   - One event per audit event the consumer appends
//   - Output handler dispatch and mark-processed failures
type Event struct {
	// WorkflowId identifies the instance that emitted this event. Empty
	// for process-level events (e.g. output processor startup).
	WorkflowId string

	// Position is the stream position this event concerns, when
	// applicable. Zero when not position-specific.
	Position int

	// Kind is a short machine-readable category: the audit event's kind
	// ("Began", "Sent", ...) for consumer emissions, "handler_dispatch" or
	// "mark_processed" for output processor emissions.
	Kind string

	// Msg is a human-readable description of the event.
	Msg string

	// Meta contains additional structured data specific to this event.
	// Keys set by the output processor:
	//   - "error": error details
	//   - "message_type": the concrete command/event type involved
	// Consumer emissions carry no Meta.
	Meta map[string]interface{}
}
