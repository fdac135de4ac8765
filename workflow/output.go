package workflow

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/dshills/workflow-go/workflow/emit"
	"github.com/dshills/workflow-go/workflow/store"
)

// OutputProcessor polls for pending output commands across all instances and
// dispatches each to the Handler registered for its message type.
// Delivery is at-most-once under MarkClaimBeforeExecute (the default) and
// at-least-once under MarkExecuteBeforeClaim, where handlers must be
// idempotent.
//
// Type parameter O is the workflow's output sum type.
type OutputProcessor[O any] struct {
	store    store.Store
	registry *HandlerRegistry[O]
	opts     Options
	metrics  *PrometheusMetrics
	emitter  emit.Emitter
	limiter  *rate.Limiter
	rng      *rand.Rand
}

// NewOutputProcessor constructs an OutputProcessor. metrics and emitter may
// be nil. If opts.OutputPollRateLimit > 0, polls are capped at that rate;
// the cap applies to every poll, whether or not the backlog is empty.
func NewOutputProcessor[O any](s store.Store, registry *HandlerRegistry[O], opts Options, metrics *PrometheusMetrics, emitter emit.Emitter) *OutputProcessor[O] {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	var limiter *rate.Limiter
	if opts.OutputPollRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.OutputPollRateLimit), 1)
	}
	return &OutputProcessor[O]{
		store:    s,
		registry: registry,
		opts:     opts,
		metrics:  metrics,
		emitter:  emitter,
		limiter:  limiter,
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- backoff jitter, not security
	}
}

// Run polls until ctx is cancelled, dispatching every pending command it
// finds on each poll. Returns ctx.Err() on cancellation.
func (p *OutputProcessor[O]) Run(ctx context.Context) error {
	for {
		if err := p.pollOnce(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval()):
		}
	}
}

func (p *OutputProcessor[O]) interval() time.Duration {
	if p.opts.OutputPollInterval > 0 {
		return p.opts.OutputPollInterval
	}
	return time.Second
}

// pollOnce fetches one batch of pending commands and dispatches each.
func (p *OutputProcessor[O]) pollOnce(ctx context.Context) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	pending, err := p.store.GetPendingCommandsAsync(ctx, "", p.opts.MaxPendingCommandsPerBatch)
	if err != nil {
		return err
	}

	if p.metrics != nil {
		if backlog, err := p.store.GetPendingCommandsAsync(ctx, "", 0); err == nil {
			p.metrics.SetPendingCommands(len(backlog))
		}
	}

	for _, cmd := range pending {
		p.dispatchOne(ctx, cmd)
	}

	return nil
}

func (p *OutputProcessor[O]) dispatchOne(ctx context.Context, cmd store.WorkflowMessage) {
	switch p.opts.MarkPolicy {
	case MarkExecuteBeforeClaim:
		p.executeBeforeClaim(ctx, cmd)
	default:
		p.claimBeforeExecute(ctx, cmd)
	}
}

func (p *OutputProcessor[O]) claimBeforeExecute(ctx context.Context, cmd store.WorkflowMessage) {
	claimed, err := p.store.MarkCommandProcessedAsync(ctx, cmd.WorkflowId, cmd.Position)
	if err != nil {
		p.emitter.Emit(emit.Event{WorkflowId: cmd.WorkflowId, Position: cmd.Position, Kind: "mark_processed", Msg: "mark failed", Meta: map[string]interface{}{"error": err.Error()}})
		return
	}
	if !claimed {
		if p.metrics != nil {
			p.metrics.IncMarkContention()
		}
		return
	}

	output, ok := cmd.Message.(O)
	if !ok {
		p.emitter.Emit(emit.Event{WorkflowId: cmd.WorkflowId, Position: cmd.Position, Kind: "handler_dispatch", Msg: "payload type mismatch"})
		return
	}
	if err := p.registry.Dispatch(ctx, cmd.MessageType, output); err != nil {
		p.emitter.Emit(emit.Event{WorkflowId: cmd.WorkflowId, Position: cmd.Position, Kind: "handler_dispatch", Msg: "handler failed after claim", Meta: map[string]interface{}{"error": err.Error(), "message_type": cmd.MessageType}})
	}
}

func (p *OutputProcessor[O]) executeBeforeClaim(ctx context.Context, cmd store.WorkflowMessage) {
	output, ok := cmd.Message.(O)
	if !ok {
		p.emitter.Emit(emit.Event{WorkflowId: cmd.WorkflowId, Position: cmd.Position, Kind: "handler_dispatch", Msg: "payload type mismatch"})
		return
	}

	policy := p.opts.HandlerRetryPolicy
	maxAttempts := 1
	if policy != nil {
		maxAttempts = policy.MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if p.metrics != nil {
				p.metrics.IncHandlerRetry(cmd.MessageType)
			}
			delay := computeBackoff(attempt-1, policy.BaseDelay, policy.MaxDelay, p.rng)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		lastErr = p.registry.Dispatch(ctx, cmd.MessageType, output)
		if lastErr == nil {
			break
		}
		if policy != nil && policy.Retryable != nil && !policy.Retryable(lastErr) {
			break
		}
	}

	if lastErr != nil {
		p.emitter.Emit(emit.Event{WorkflowId: cmd.WorkflowId, Position: cmd.Position, Kind: "handler_dispatch", Msg: "handler failed, will retry on next poll", Meta: map[string]interface{}{"error": lastErr.Error(), "message_type": cmd.MessageType}})
		return
	}

	if _, err := p.store.MarkCommandProcessedAsync(ctx, cmd.WorkflowId, cmd.Position); err != nil {
		p.emitter.Emit(emit.Event{WorkflowId: cmd.WorkflowId, Position: cmd.Position, Kind: "mark_processed", Msg: "mark failed after successful execution", Meta: map[string]interface{}{"error": err.Error()}})
	}
}
