package workflow

import "errors"

// ErrUnknownEvent indicates Evolve was asked to fold an event variant it
// does not handle. This is a programmer error: it is fatal for the
// instance's current cycle, not recoverable by retrying.
var ErrUnknownEvent = errors.New("workflow: evolve received an unhandled event variant")

// ErrNotBegun reports that an instance has no Began event (e.g. a query
// against an instance the router has never routed to). No function in this
// module returns it.
var ErrNotBegun = errors.New("workflow: instance has not begun")

// ErrPositionGap is returned by Project when a stream is read with a gap in
// its dense position sequence, indicating backend corruption. The
// consumer's fold step does not check positions.
var ErrPositionGap = errors.New("workflow: stream position gap detected")

// EngineError is a structured error carrying a stable machine-readable Code
// alongside a human-readable Message, for conditions the runtime surfaces
// rather than retries (fatal Evolve errors, invariant violations).
type EngineError struct {
	Message string
	Code    string
	Err     error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Error codes used by EngineError.
const (
	CodeEvolveUnknownEvent = "EVOLVE_UNKNOWN_EVENT"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodePositionGap        = "POSITION_GAP"
	CodeAppendFailed       = "APPEND_FAILED"
)
