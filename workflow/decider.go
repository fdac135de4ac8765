package workflow

import "context"

// Decider is the pure triple (InitialState, Decide, Evolve) that defines a
// workflow type, plus the shared Translate (see the free function below).
//
// Type parameters: S is the state type, I is the input sum type, O is the
// output sum type.
//
// Implementations must be deterministic and side-effect free: Decide and
// Evolve are called repeatedly during replay and must return identical
// results given identical arguments.
type Decider[S, I, O any] interface {
	// InitialState returns the constant starting state for a new instance.
	InitialState() S

	// Decide returns the ordered list of commands to issue in response to
	// input in state. Must be pure and deterministic. An unhandled
	// (input, state) pair should return nil rather than panicking.
	Decide(input I, state S) []Command[O]

	// Evolve folds event into state, returning the new state. Must handle
	// every event variant Decide+Translate can produce; events that do not
	// mutate state must return state unchanged. An unhandled event variant
	// is a programmer error (see ErrUnknownEvent).
	Evolve(state S, event WorkflowEvent[I, O]) S
}

// AsyncDecider is the async variant of Decider: DecideAsync may suspend and
// receives a typed collaborator C supplied by the runtime (e.g. an advisor
// backed by an LLM provider SDK). Evolve stays pure; only Decide may
// suspend, so AsyncDecider does not itself declare Evolve — pair it with a
// Decider[S, I, O] for the rest of the contract, typically via the same
// concrete workflow type implementing both interfaces.
type AsyncDecider[S, I, O, C any] interface {
	// DecideAsync returns the ordered list of commands to issue in response
	// to input in state, consulting advisor. Unlike Decide, this may
	// suspend on ctx; Evolve and Translate remain pure and synchronous.
	DecideAsync(ctx context.Context, input I, state S, advisor C) ([]Command[O], error)
}

// Translate produces the audit-event sequence for one decider cycle. It is
// identical for every workflow, so it is provided once here rather than
// reimplemented per workflow type.
func Translate[I, O any](begins bool, input I, commands []Command[O]) []WorkflowEvent[I, O] {
	events := make([]WorkflowEvent[I, O], 0, len(commands)+2)

	if begins {
		events = append(events,
			WorkflowEvent[I, O]{Kind: EventBegan},
			WorkflowEvent[I, O]{Kind: EventInitiatedBy, Input: input},
		)
	} else {
		events = append(events, WorkflowEvent[I, O]{Kind: EventReceived, Input: input})
	}

	for _, cmd := range commands {
		switch cmd.Kind {
		case CommandSend:
			events = append(events, WorkflowEvent[I, O]{Kind: EventSent, Output: cmd.Output})
		case CommandPublish:
			events = append(events, WorkflowEvent[I, O]{Kind: EventPublished, Output: cmd.Output})
		case CommandSchedule:
			events = append(events, WorkflowEvent[I, O]{Kind: EventScheduled, Output: cmd.Output, After: cmd.After})
		case CommandReply:
			events = append(events, WorkflowEvent[I, O]{Kind: EventReplied, Output: cmd.Output})
		case CommandComplete:
			events = append(events, WorkflowEvent[I, O]{Kind: EventCompleted})
		}
	}

	return events
}

// DeciderFunc adapts three bare functions into a Decider, for workflow types
// that would rather define Decide/Evolve as free functions than as methods on
// a named receiver type.
type DeciderFunc[S, I, O any] struct {
	InitialStateFunc func() S
	DecideFunc       func(input I, state S) []Command[O]
	EvolveFunc       func(state S, event WorkflowEvent[I, O]) S
}

// InitialState implements Decider.
func (d DeciderFunc[S, I, O]) InitialState() S { return d.InitialStateFunc() }

// Decide implements Decider.
func (d DeciderFunc[S, I, O]) Decide(input I, state S) []Command[O] {
	return d.DecideFunc(input, state)
}

// Evolve implements Decider.
func (d DeciderFunc[S, I, O]) Evolve(state S, event WorkflowEvent[I, O]) S {
	return d.EvolveFunc(state, event)
}
