package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/workflow-go/workflow/emit"
	"github.com/dshills/workflow-go/workflow/store"
)

// Consumer drains pending input for workflow instances: for each instance it
// is triggered (or swept) on, it replays the instance's output-event history
// through Evolve to rebuild state, runs every unconsumed Input message
// through Decide+Translate, and atomically persists the resulting audit
// events and output commands.
//
// Type parameters: S is the state type, I the input sum type, O the output
// sum type.
type Consumer[S, I, O any] struct {
	store   store.Store
	decider Decider[S, I, O]
	trigger Trigger
	opts    Options
	metrics *PrometheusMetrics
	emitter emit.Emitter

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	sem chan struct{}
}

// NewConsumer constructs a Consumer. metrics and emitter may be nil.
func NewConsumer[S, I, O any](s store.Store, d Decider[S, I, O], trigger Trigger, opts Options, metrics *PrometheusMetrics, emitter emit.Emitter) *Consumer[S, I, O] {
	parallelism := opts.ConsumerParallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	return &Consumer[S, I, O]{
		store:   s,
		decider: d,
		trigger: trigger,
		opts:    opts,
		metrics: metrics,
		emitter: emitter,
		locks:   make(map[string]*sync.Mutex),
		sem:     make(chan struct{}, parallelism),
	}
}

// Run drains trigger.Triggers() until ctx is cancelled, dispatching each
// triggered instance to Process under the consumer's parallelism bound.
// Returns ctx.Err() on cancellation.
func (c *Consumer[S, I, O]) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case workflowId, ok := <-c.trigger.Triggers():
			if !ok {
				return nil
			}
			if ack, ok := c.trigger.(interface{ Ack(string) }); ok {
				ack.Ack(workflowId)
			}

			select {
			case c.sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				defer func() { <-c.sem }()
				_ = c.Process(ctx, id)
			}(workflowId)
		}
	}
}

// Sweep runs Process for workflowId unconditionally. It is the periodic
// safety net for an unreliable Trigger: calling it on an instance with no
// pending input is a cheap no-op, since Process reads the stream before
// doing any work.
func (c *Consumer[S, I, O]) Sweep(ctx context.Context, workflowId string) error {
	if c.metrics != nil {
		c.metrics.IncSweep()
	}
	return c.Process(ctx, workflowId)
}

// Process runs one drain cycle for workflowId: it rebuilds state from the
// instance's output-event history, then runs every Input message not yet
// reflected by a Received/InitiatedBy event through Decide+Translate, in
// position order, appending the results as one atomic batch. Mutual
// exclusion per instance is via an in-process keyed mutex
// (AdvisoryLockStyle LockAdvisory/LockRow are backend-level alternatives for
// multi-process deployments; this Consumer implements LockInProcess).
func (c *Consumer[S, I, O]) Process(ctx context.Context, workflowId string) error {
	lock := c.instanceLock(workflowId)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	messages, err := c.store.ReadStreamAsync(ctx, workflowId, 0)
	if err != nil {
		return fmt.Errorf("workflow: reading stream for %s: %w", workflowId, err)
	}

	var inputs []store.WorkflowMessage
	var outputEvents []store.WorkflowMessage
	consumedCount := 0

	for _, msg := range messages {
		switch msg.Direction {
		case store.DirectionInput:
			inputs = append(inputs, msg)
		case store.DirectionOutput:
			if msg.Kind == store.KindEvent {
				outputEvents = append(outputEvents, msg)
				if msg.MessageType == string(EventReceived) || msg.MessageType == string(EventInitiatedBy) {
					consumedCount++
				}
			}
		}
	}

	if consumedCount > len(inputs) {
		return &EngineError{Message: "consumed count exceeds recorded inputs", Code: CodeInvariantViolation}
	}
	pending := inputs[consumedCount:]
	if len(pending) == 0 {
		return nil
	}

	state := c.decider.InitialState()
	for _, evMsg := range outputEvents {
		event, ok := evMsg.Message.(WorkflowEvent[I, O])
		if !ok {
			return &EngineError{Message: "stored event has unexpected type", Code: CodeEvolveUnknownEvent}
		}
		state = c.decider.Evolve(state, event)
	}

	begins := consumedCount == 0

	var toAppend []store.WorkflowMessage
	for _, inputMsg := range pending {
		input, ok := inputMsg.Message.(I)
		if !ok {
			return &EngineError{Message: "stored input has unexpected type", Code: CodeInvariantViolation}
		}

		commands := c.decider.Decide(input, state)
		events := Translate(begins, input, commands)

		for _, e := range events {
			state = c.decider.Evolve(state, e)
			toAppend = append(toAppend, store.WorkflowMessage{
				WorkflowId:  workflowId,
				Kind:        store.KindEvent,
				Direction:   store.DirectionOutput,
				MessageType: string(e.Kind),
				Message:     e,
			})
			c.emitter.Emit(emit.Event{WorkflowId: workflowId, Kind: string(e.Kind)})
		}

		for _, cmd := range commands {
			if cmd.Kind == CommandComplete {
				continue
			}
			toAppend = append(toAppend, store.WorkflowMessage{
				WorkflowId:  workflowId,
				Kind:        store.KindCommand,
				Direction:   store.DirectionOutput,
				MessageType: string(cmd.Kind),
				Message:     cmd.Output,
				Processed:   boolPtr(false),
			})
		}

		begins = false
	}

	if _, err := c.store.AppendAsync(ctx, workflowId, toAppend, ""); err != nil {
		return fmt.Errorf("workflow: appending cycle results for %s: %w", workflowId, err)
	}

	if c.metrics != nil {
		c.metrics.ObserveCycle(workflowId, float64(time.Since(start).Milliseconds()))
		if backlog, err := c.store.GetPendingCommandsAsync(ctx, "", 0); err == nil {
			c.metrics.SetPendingCommands(len(backlog))
		}
	}

	return nil
}

func (c *Consumer[S, I, O]) instanceLock(workflowId string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	lock, ok := c.locks[workflowId]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[workflowId] = lock
	}
	return lock
}

func boolPtr(b bool) *bool { return &b }
