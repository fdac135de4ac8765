package workflow

import "context"

// Snapshot is a decider's accumulated state plus its event history, as
// maintained by the consumer between cycles.
type Snapshot[S, I, O any] struct {
	State   S
	History []WorkflowEvent[I, O]
}

// Orchestrate runs one pure decider cycle: Decide, then Translate, then fold
// the resulting events through Evolve. It performs no I/O and reads no
// clock other than what begins/input embed; retry logic lives above it.
//
// Returns the new snapshot, the commands Decide produced, and the events
// Translate produced for this cycle (not the full history). The returned
// Snapshot's History is a copy of snap.History with these events appended.
func Orchestrate[S, I, O any](d Decider[S, I, O], snap Snapshot[S, I, O], input I, begins bool) (Snapshot[S, I, O], []Command[O], []WorkflowEvent[I, O]) {
	commands := d.Decide(input, snap.State)
	events := Translate(begins, input, commands)

	state := snap.State
	for _, e := range events {
		state = d.Evolve(state, e)
	}

	history := make([]WorkflowEvent[I, O], len(snap.History), len(snap.History)+len(events))
	copy(history, snap.History)
	history = append(history, events...)

	return Snapshot[S, I, O]{State: state, History: history}, commands, events
}

// OrchestrateAsync is Orchestrate's async-decider counterpart: it lets
// DecideAsync suspend on ctx and consult advisor, but keeps Translate and the
// Evolve fold pure and synchronous — Evolve and Translate never suspend,
// only Decide may. Used by workflows implementing AsyncDecider instead of
// Decider for their opening (or any) cycle.
func OrchestrateAsync[S, I, O, C any](ctx context.Context, d AsyncDecider[S, I, O, C], snap Snapshot[S, I, O], input I, begins bool, advisor C) (Snapshot[S, I, O], []Command[O], []WorkflowEvent[I, O], error) {
	commands, err := d.DecideAsync(ctx, input, snap.State, advisor)
	if err != nil {
		return snap, nil, nil, err
	}

	events := Translate(begins, input, commands)

	evolver, ok := any(d).(interface {
		Evolve(state S, event WorkflowEvent[I, O]) S
	})
	if !ok {
		return snap, nil, nil, &EngineError{Message: "AsyncDecider value does not also implement Evolve", Code: CodeInvariantViolation}
	}

	state := snap.State
	for _, e := range events {
		state = evolver.Evolve(state, e)
	}

	history := make([]WorkflowEvent[I, O], len(snap.History), len(snap.History)+len(events))
	copy(history, snap.History)
	history = append(history, events...)

	return Snapshot[S, I, O]{State: state, History: history}, commands, events, nil
}
