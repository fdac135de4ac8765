package workflow

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoHandler is returned by HandlerRegistry.Dispatch when no handler is
// registered for a message type.
var ErrNoHandler = errors.New("workflow: no handler registered for message type")

// Handler executes one pending output command's effect against the outside
// world (an HTTP call, a message publish, a database write). Handlers must
// be idempotent under MarkExecuteBeforeClaim and should be written as
// idempotent regardless, since crash recovery can redeliver even under
// MarkClaimBeforeExecute.
//
// Type parameter O is the workflow's output sum type.
type Handler[O any] func(ctx context.Context, output O) error

// HandlerRegistry dispatches pending output commands to the Handler
// registered for their MessageType discriminator, which is the command's
// CommandKind ("Send", "Publish", "Schedule", "Reply"): domain-specific
// behavior within a kind is the handler's own job, typically by switching on
// the output payload's Kind field.
//
// Type parameter O is the workflow's output sum type.
type HandlerRegistry[O any] struct {
	handlers map[string]Handler[O]
}

// NewHandlerRegistry returns an empty HandlerRegistry.
func NewHandlerRegistry[O any]() *HandlerRegistry[O] {
	return &HandlerRegistry[O]{handlers: make(map[string]Handler[O])}
}

// Register binds handler to messageType, replacing any prior registration.
func (r *HandlerRegistry[O]) Register(messageType string, handler Handler[O]) {
	r.handlers[messageType] = handler
}

// Dispatch invokes the handler registered for messageType with output. Returns
// ErrNoHandler if none is registered.
func (r *HandlerRegistry[O]) Dispatch(ctx context.Context, messageType string, output O) error {
	h, ok := r.handlers[messageType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, messageType)
	}
	return h(ctx, output)
}
