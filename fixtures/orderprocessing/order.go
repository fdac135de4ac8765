// Package orderprocessing is a seed fixture workflow exercising the core
// decider contract: a single order moves through payment, shipping, and
// delivery, with cancellation and payment-timeout paths.
package orderprocessing

import (
	"time"

	"github.com/dshills/workflow-go/workflow"
)

const paymentTimeoutDelay = 15 * time.Minute

// InputKind tags the variant of an Input.
type InputKind string

const (
	PlaceOrder      InputKind = "PlaceOrder"
	PaymentReceived InputKind = "PaymentReceived"
	OrderShipped    InputKind = "OrderShipped"
	OrderDelivered  InputKind = "OrderDelivered"
	CancelOrder     InputKind = "CancelOrder"
	PaymentTimeout  InputKind = "PaymentTimeout"
)

// Input is the order workflow's input sum type.
type Input struct {
	Kind           InputKind
	OrderId        string
	TrackingNumber string
	Reason         string
}

// OutputKind tags the variant of an Output.
type OutputKind string

const (
	ProcessPayment       OutputKind = "ProcessPayment"
	NotifyOrderPlaced    OutputKind = "NotifyOrderPlaced"
	SchedulePaymentCheck OutputKind = "PaymentTimeout"
	ShipOrder            OutputKind = "ShipOrder"
	NotifyOrderShipped   OutputKind = "NotifyOrderShipped"
	NotifyOrderDelivered OutputKind = "NotifyOrderDelivered"
	NotifyOrderCancelled OutputKind = "NotifyOrderCancelled"
)

// Output is the order workflow's output sum type.
type Output struct {
	Kind           OutputKind
	OrderId        string
	TrackingNumber string
	Reason         string
}

// Status enumerates the order's coarse lifecycle stage.
type Status string

const (
	StatusNone      Status = ""
	StatusPlaced    Status = "Placed"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// State is the order workflow's state.
type State struct {
	Status         Status
	OrderId        string
	TrackingNumber string
	CancelReason   string
}

// RouteByOrderId is the routing function: every input for a given order
// lands on the same instance, keyed "order:<OrderId>".
func RouteByOrderId(input Input) string {
	return "order:" + input.OrderId
}

// Decider returns the order workflow's Decider.
func Decider() workflow.Decider[State, Input, Output] {
	return workflow.DeciderFunc[State, Input, Output]{
		InitialStateFunc: func() State { return State{Status: StatusNone} },
		DecideFunc:       decide,
		EvolveFunc:       evolve,
	}
}

func decide(input Input, state State) []workflow.Command[Output] {
	switch input.Kind {
	case PlaceOrder:
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: ProcessPayment, OrderId: input.OrderId}),
			workflow.Send(Output{Kind: NotifyOrderPlaced, OrderId: input.OrderId}),
			workflow.Schedule(paymentTimeoutDelay, Output{Kind: SchedulePaymentCheck, OrderId: input.OrderId}),
		}

	case PaymentReceived:
		if state.Status != StatusPlaced {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: ShipOrder, OrderId: input.OrderId}),
		}

	case OrderShipped:
		if state.Status != StatusPlaced {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: NotifyOrderShipped, OrderId: input.OrderId, TrackingNumber: input.TrackingNumber}),
		}

	case OrderDelivered:
		if state.Status != StatusPlaced {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: NotifyOrderDelivered, OrderId: input.OrderId}),
			workflow.Complete[Output](),
		}

	case CancelOrder:
		if state.Status != StatusPlaced {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: NotifyOrderCancelled, OrderId: input.OrderId, Reason: input.Reason}),
			workflow.Complete[Output](),
		}

	case PaymentTimeout:
		if state.Status != StatusPlaced {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: NotifyOrderCancelled, OrderId: input.OrderId, Reason: "Payment_Timeout"}),
			workflow.Complete[Output](),
		}

	default:
		return nil
	}
}

func evolve(state State, event workflow.WorkflowEvent[Input, Output]) State {
	if event.Kind != workflow.EventInitiatedBy && event.Kind != workflow.EventReceived {
		return state
	}

	input := event.Input
	switch input.Kind {
	case PlaceOrder:
		state.Status = StatusPlaced
		state.OrderId = input.OrderId
	case OrderShipped:
		if state.Status == StatusPlaced {
			state.TrackingNumber = input.TrackingNumber
		}
	case OrderDelivered:
		if state.Status == StatusPlaced {
			state.Status = StatusDelivered
		}
	case CancelOrder:
		if state.Status == StatusPlaced {
			state.Status = StatusCancelled
			state.CancelReason = input.Reason
		}
	case PaymentTimeout:
		if state.Status == StatusPlaced {
			state.Status = StatusCancelled
			state.CancelReason = "Payment_Timeout"
		}
	}

	return state
}
