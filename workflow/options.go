package workflow

import "time"

// MarkPolicy selects when the output processor flips a command's Processed
// flag relative to dispatching its handler.
type MarkPolicy string

const (
	// MarkClaimBeforeExecute marks a command processed before dispatching
	// its handler. Prevents double-execution under worker concurrency at
	// the cost of possibly losing a handler invocation on crash between
	// mark and execute. The default.
	MarkClaimBeforeExecute MarkPolicy = "claim-before-execute"

	// MarkExecuteBeforeClaim dispatches the handler first and marks
	// processed only on success, retrying on the next poll otherwise.
	// Yields at-least-once execution but requires idempotent handlers.
	MarkExecuteBeforeClaim MarkPolicy = "execute-before-claim"
)

// AdvisoryLockStyle selects how the consumer implements per-instance mutual
// exclusion.
type AdvisoryLockStyle string

const (
	// LockInProcess uses an in-process keyed-mutex map. Correct only when
	// a single process runs the consumer for a given set of instances.
	LockInProcess AdvisoryLockStyle = "in-process"

	// LockAdvisory uses a backend-native advisory lock (e.g. a SQL
	// advisory lock function), safe across processes sharing one backend.
	LockAdvisory AdvisoryLockStyle = "advisory"

	// LockRow uses a conditional update on a per-instance row as a lock,
	// safe across processes sharing one backend.
	LockRow AdvisoryLockStyle = "row"
)

// Options configures a Consumer and OutputProcessor. Construct directly, or
// apply Option functional options over DefaultOptions via NewOptions.
type Options struct {
	// OutputPollInterval is the output processor's idle sleep between
	// polls. Default 1s.
	OutputPollInterval time.Duration

	// MaxPendingCommandsPerBatch bounds how many pending commands a single
	// output poll fetches. Default 100. 0 means unbounded.
	MaxPendingCommandsPerBatch int

	// ConsumerParallelism bounds how many instances a single consumer
	// processes concurrently. Default 8.
	ConsumerParallelism int

	// AdvisoryLockStyle names the consumer's mutual-exclusion mechanism.
	// Default LockInProcess. Consumer does not read this field: it always
	// uses its in-process keyed mutex.
	AdvisoryLockStyle AdvisoryLockStyle

	// MarkPolicy selects when pending commands are marked processed
	// relative to handler dispatch. Default MarkClaimBeforeExecute.
	MarkPolicy MarkPolicy

	// OutputPollRateLimit caps polls/sec, applied to every poll whether or
	// not the backlog is empty. 0 disables the limiter (poll as fast as
	// OutputPollInterval allows).
	OutputPollRateLimit float64

	// SweepInterval is the configured periodic sweep cadence, the safety
	// net for an unreliable Trigger. No component in this package reads
	// it: Consumer.Run does not sweep, and Consumer.Sweep runs only when a
	// caller invokes it.
	SweepInterval time.Duration

	// HandlerRetryPolicy governs retries of failing output handlers under
	// MarkExecuteBeforeClaim. Nil means no additional in-process retry
	// beyond the next poll cycle.
	HandlerRetryPolicy *RetryPolicy
}

// DefaultOptions returns the engine's default configuration.
func DefaultOptions() Options {
	return Options{
		OutputPollInterval:         1 * time.Second,
		MaxPendingCommandsPerBatch: 100,
		ConsumerParallelism:        8,
		AdvisoryLockStyle:          LockInProcess,
		MarkPolicy:                 MarkClaimBeforeExecute,
		OutputPollRateLimit:        0,
		SweepInterval:              0,
	}
}

// Option is a functional option for refining Options over its defaults.
//
// Example:
//
//	opts := workflow.NewOptions(
//	    workflow.WithOutputPollInterval(500*time.Millisecond),
//	    workflow.WithMarkPolicy(workflow.MarkExecuteBeforeClaim),
//	)
type Option func(*Options)

// NewOptions returns DefaultOptions with opts applied in order.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithOutputPollInterval sets the output processor's idle sleep interval.
func WithOutputPollInterval(d time.Duration) Option {
	return func(o *Options) { o.OutputPollInterval = d }
}

// WithMaxPendingCommandsPerBatch sets the per-poll batch size.
func WithMaxPendingCommandsPerBatch(n int) Option {
	return func(o *Options) { o.MaxPendingCommandsPerBatch = n }
}

// WithConsumerParallelism sets how many instances a consumer processes
// concurrently.
func WithConsumerParallelism(n int) Option {
	return func(o *Options) { o.ConsumerParallelism = n }
}

// WithAdvisoryLockStyle selects the consumer's mutual-exclusion mechanism.
func WithAdvisoryLockStyle(style AdvisoryLockStyle) Option {
	return func(o *Options) { o.AdvisoryLockStyle = style }
}

// WithMarkPolicy selects when pending commands are marked processed.
func WithMarkPolicy(policy MarkPolicy) Option {
	return func(o *Options) { o.MarkPolicy = policy }
}

// WithOutputPollRateLimit caps polls/sec.
func WithOutputPollRateLimit(rps float64) Option {
	return func(o *Options) { o.OutputPollRateLimit = rps }
}

// WithSweepInterval sets the periodic sweep cadence.
func WithSweepInterval(d time.Duration) Option {
	return func(o *Options) { o.SweepInterval = d }
}

// WithHandlerRetryPolicy sets the retry policy for failing output handlers
// under MarkExecuteBeforeClaim.
func WithHandlerRetryPolicy(p *RetryPolicy) Option {
	return func(o *Options) { o.HandlerRetryPolicy = p }
}
