package workflow

import (
	"context"

	"github.com/dshills/workflow-go/workflow/store"
)

// Router accepts external input for a workflow type and durably records it
// as a pending Input message on the instance's stream, then notifies the
// Trigger so a Consumer picks it up. Routing never runs the decider itself:
// it only appends and notifies, keeping the write path cheap and
// independent of decider latency.
//
// Type parameter I is the workflow's input sum type.
type Router[I any] struct {
	store   store.Store
	trigger Trigger
}

// NewRouter constructs a Router over s, notifying trigger after each
// successful route.
func NewRouter[I any](s store.Store, trigger Trigger) *Router[I] {
	return &Router[I]{store: s, trigger: trigger}
}

// Route appends one Input message to workflowId's stream and notifies the
// trigger. kind classifies the message for audit/query purposes only — it
// has no bearing on how the consumer processes it, since both Command and
// Event inputs are folded into the decider's input sum type I. messageType
// is the stable discriminator identifying the concrete input variant (e.g.
// the workflow's own InputKind); a serializing backend would use it to
// decode the stored payload back to a concrete type, MemStore ignores it.
//
// idempotencyKey, if non-empty, makes this call safe to retry: a duplicate
// call with the same key returns store.ErrIdempotencyViolation rather than
// appending a second time.
func (r *Router[I]) Route(ctx context.Context, workflowId string, kind store.Kind, messageType string, input I, idempotencyKey string) (int, error) {
	msg := store.WorkflowMessage{
		WorkflowId:  workflowId,
		Kind:        kind,
		Direction:   store.DirectionInput,
		MessageType: messageType,
		Message:     input,
	}

	position, err := r.store.AppendAsync(ctx, workflowId, []store.WorkflowMessage{msg}, idempotencyKey)
	if err != nil {
		return 0, err
	}

	if r.trigger != nil {
		if err := r.trigger.Notify(ctx, workflowId, position); err != nil {
			return position, err
		}
	}

	return position, nil
}
