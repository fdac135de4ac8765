package supportticket

import (
	"context"

	"github.com/dshills/workflow-go/workflow"
)

// MessageBus is the collaborator Send/Reply handlers forward to.
type MessageBus interface {
	Deliver(ctx context.Context, output Output) error
}

// NewHandlers builds the composite dispatcher for the support-ticket
// workflow: Send covers both ReplyToCustomer and EscalateToOnCall, Reply
// covers QueryStatus responses.
func NewHandlers(bus MessageBus) *workflow.HandlerRegistry[Output] {
	registry := workflow.NewHandlerRegistry[Output]()
	registry.Register(string(workflow.CommandSend), func(ctx context.Context, output Output) error {
		return bus.Deliver(ctx, output)
	})
	registry.Register(string(workflow.CommandReply), func(ctx context.Context, output Output) error {
		return bus.Deliver(ctx, output)
	})
	return registry
}
