package workflow

import "github.com/google/uuid"

// NewWorkflowId returns a fresh random WorkflowId for workflows whose
// routing function does not derive an id from domain data (e.g. a workflow
// started on demand rather than keyed by an existing business identifier).
func NewWorkflowId() string {
	return uuid.NewString()
}
