// Package groupcheckout is a seed fixture workflow exercising
// partial-result aggregation across multiple inputs: a group checkout waits
// for every guest to check out (or time out), then reports the aggregate
// outcome.
package groupcheckout

import "github.com/dshills/workflow-go/workflow"

// InputKind tags the variant of an Input.
type InputKind string

const (
	InitiateGroupCheckout InputKind = "InitiateGroupCheckout"
	GuestCheckedOut       InputKind = "GuestCheckedOut"
	GuestCheckoutFailed   InputKind = "GuestCheckoutFailed"
	TimeoutGroupCheckout  InputKind = "TimeoutGroupCheckout"
)

// Input is the group-checkout workflow's input sum type.
type Input struct {
	Kind          InputKind
	GroupId       string
	GuestIds      []string // populated on InitiateGroupCheckout
	GuestId       string   // populated on GuestCheckedOut / GuestCheckoutFailed
	FailureReason string
}

// OutputKind tags the variant of an Output.
type OutputKind string

const (
	GroupCheckoutCompleted OutputKind = "GroupCheckoutCompleted"
	GroupCheckoutFailed    OutputKind = "GroupCheckoutFailed"
	GroupCheckoutTimedOut  OutputKind = "GroupCheckoutTimedOut"
)

// Output is the group-checkout workflow's output sum type.
type Output struct {
	Kind      OutputKind
	GroupId   string
	Completed []string
	Failed    []string
	Pending   []string
}

// Status enumerates the checkout's coarse lifecycle stage.
type Status string

const (
	StatusNone     Status = ""
	StatusPending  Status = "Pending"
	StatusFinished Status = "Finished"
)

// State is the group-checkout workflow's state: the set of guests expected,
// and the outcome recorded for each guest seen so far.
type State struct {
	Status    Status
	GroupId   string
	Guests    []string
	Completed map[string]bool
	Failed    map[string]string
}

// RouteByGroupId is the routing function: every input for a given group
// lands on the same instance, keyed "group:<GroupId>".
func RouteByGroupId(input Input) string {
	return "group:" + input.GroupId
}

// Decider returns the group-checkout workflow's Decider.
func Decider() workflow.Decider[State, Input, Output] {
	return workflow.DeciderFunc[State, Input, Output]{
		InitialStateFunc: func() State {
			return State{Status: StatusNone, Completed: map[string]bool{}, Failed: map[string]string{}}
		},
		DecideFunc: decide,
		EvolveFunc: evolve,
	}
}

func pending(state State) []string {
	var out []string
	for _, g := range state.Guests {
		if state.Completed[g] {
			continue
		}
		if _, failed := state.Failed[g]; failed {
			continue
		}
		out = append(out, g)
	}
	return out
}

func decide(input Input, state State) []workflow.Command[Output] {
	switch input.Kind {
	case InitiateGroupCheckout:
		return nil

	case GuestCheckedOut, GuestCheckoutFailed:
		if state.Status != StatusPending {
			return nil
		}
		completed := completedAfter(state, input)
		failed := failedAfter(state, input)
		if len(completed)+len(failed) < len(state.Guests) {
			return nil // still waiting on other guests
		}
		if len(failed) > 0 {
			return []workflow.Command[Output]{
				workflow.Send(Output{
					Kind:      GroupCheckoutFailed,
					GroupId:   state.GroupId,
					Completed: sortedKeys(completed),
					Failed:    sortedFailed(failed),
				}),
				workflow.Complete[Output](),
			}
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{
				Kind:      GroupCheckoutCompleted,
				GroupId:   state.GroupId,
				Completed: sortedKeys(completed),
			}),
			workflow.Complete[Output](),
		}

	case TimeoutGroupCheckout:
		if state.Status != StatusPending {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{
				Kind:    GroupCheckoutTimedOut,
				GroupId: state.GroupId,
				Pending: pending(state),
			}),
			workflow.Complete[Output](),
		}

	default:
		return nil
	}
}

// completedAfter/failedAfter compute what the guest-outcome sets would be if
// input were folded in, without mutating state — Decide must stay pure, so
// it recomputes the prospective post-fold view rather than relying on
// Evolve having already run.
func completedAfter(state State, input Input) map[string]bool {
	out := map[string]bool{}
	for g := range state.Completed {
		out[g] = true
	}
	if input.Kind == GuestCheckedOut {
		out[input.GuestId] = true
	}
	return out
}

func failedAfter(state State, input Input) map[string]string {
	out := map[string]string{}
	for g, reason := range state.Failed {
		out[g] = reason
	}
	if input.Kind == GuestCheckoutFailed {
		reason := input.FailureReason
		if reason == "" {
			reason = "unknown"
		}
		out[input.GuestId] = reason
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return sortStrings(out)
}

func sortedFailed(m map[string]string) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return sortStrings(out)
}

func sortStrings(in []string) []string {
	for i := 1; i < len(in); i++ {
		for j := i; j > 0 && in[j-1] > in[j]; j-- {
			in[j-1], in[j] = in[j], in[j-1]
		}
	}
	return in
}

func evolve(state State, event workflow.WorkflowEvent[Input, Output]) State {
	if event.Kind != workflow.EventInitiatedBy && event.Kind != workflow.EventReceived {
		return state
	}

	input := event.Input
	switch input.Kind {
	case InitiateGroupCheckout:
		state.Status = StatusPending
		state.GroupId = input.GroupId
		state.Guests = append([]string(nil), input.GuestIds...)
		state.Completed = map[string]bool{}
		state.Failed = map[string]string{}

	case GuestCheckedOut:
		if state.Status == StatusPending {
			state.Completed = completedAfter(state, input)
			if len(pending(state)) == 0 {
				state.Status = StatusFinished
			}
		}

	case GuestCheckoutFailed:
		if state.Status == StatusPending {
			state.Failed = failedAfter(state, input)
			if len(pending(state)) == 0 {
				state.Status = StatusFinished
			}
		}

	case TimeoutGroupCheckout:
		if state.Status == StatusPending {
			state.Status = StatusFinished
		}
	}

	return state
}
