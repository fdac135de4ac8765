package groupcheckout

import (
	"context"

	"github.com/dshills/workflow-go/workflow"
)

// MessageBus is the collaborator Send/Publish handlers forward to.
type MessageBus interface {
	Deliver(ctx context.Context, output Output) error
}

// NewHandlers builds the composite dispatcher for the group-checkout
// workflow: apart from Complete, which the consumer never stores as a
// pending command, every command this workflow issues is a Send, so only
// that CommandKind needs a registration.
func NewHandlers(bus MessageBus) *workflow.HandlerRegistry[Output] {
	registry := workflow.NewHandlerRegistry[Output]()
	registry.Register(string(workflow.CommandSend), func(ctx context.Context, output Output) error {
		return bus.Deliver(ctx, output)
	})
	return registry
}
