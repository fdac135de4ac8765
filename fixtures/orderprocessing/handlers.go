package orderprocessing

import (
	"context"

	"github.com/dshills/workflow-go/workflow"
)

// MessageBus is the minimal collaborator a Send/Publish handler forwards to.
// Real deployments back this with a message broker client; the transport
// itself is treated as an external collaborator, not the engine's concern.
type MessageBus interface {
	Deliver(ctx context.Context, output Output) error
}

// Scheduler is the collaborator a Schedule handler forwards to, redelivering
// the scheduled payload as a new external input. ScheduleRedelivery receives
// only the output payload: the Schedule command's delay is not stored with
// the pending command, so it does not reach the scheduler.
type Scheduler interface {
	ScheduleRedelivery(ctx context.Context, orderId string, output Output) error
}

// NewHandlers builds a composite dispatcher, one handler per CommandKind,
// routing Send/Publish to bus and Schedule to scheduler. Domain-specific
// behavior per Output.Kind is the collaborators' concern, not the engine's.
func NewHandlers(bus MessageBus, scheduler Scheduler) *workflow.HandlerRegistry[Output] {
	registry := workflow.NewHandlerRegistry[Output]()

	registry.Register(string(workflow.CommandSend), func(ctx context.Context, output Output) error {
		return bus.Deliver(ctx, output)
	})
	registry.Register(string(workflow.CommandPublish), func(ctx context.Context, output Output) error {
		return bus.Deliver(ctx, output)
	})
	registry.Register(string(workflow.CommandSchedule), func(ctx context.Context, output Output) error {
		return scheduler.ScheduleRedelivery(ctx, output.OrderId, output)
	})
	registry.Register(string(workflow.CommandReply), func(ctx context.Context, output Output) error {
		return bus.Deliver(ctx, output)
	})

	return registry
}
