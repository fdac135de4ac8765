package workflow

import (
	"context"

	"github.com/dshills/workflow-go/workflow/store"
)

// Project folds every message in workflowId's stream through applier,
// starting from initial, and returns the resulting read model. Unlike the
// consumer's Evolve fold, which only folds audit events to rebuild decider
// state, Project folds the whole stream — inputs, audit events, and
// commands alike — so callers can build arbitrary read models (a dashboard
// row, a status query) without the decider's state shape constraining them.
//
// A non-dense position sequence returns ErrPositionGap rather than silently
// skipping the gap.
func Project[P any](ctx context.Context, s store.Store, workflowId string, initial P, applier func(P, store.WorkflowMessage) P) (P, error) {
	messages, err := s.ReadStreamAsync(ctx, workflowId, 0)
	if err != nil {
		return initial, err
	}

	state := initial
	expected := 1
	for _, msg := range messages {
		if msg.Position != expected {
			return state, ErrPositionGap
		}
		state = applier(state, msg)
		expected++
	}

	return state, nil
}
