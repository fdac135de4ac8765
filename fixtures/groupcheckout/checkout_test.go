package groupcheckout_test

import (
	"reflect"
	"testing"

	"github.com/dshills/workflow-go/fixtures/groupcheckout"
	"github.com/dshills/workflow-go/workflow"
)

type snap = workflow.Snapshot[groupcheckout.State, groupcheckout.Input, groupcheckout.Output]

func step(t *testing.T, s snap, input groupcheckout.Input, begins bool) (snap, []workflow.Command[groupcheckout.Output]) {
	t.Helper()
	newSnap, cmds, _ := workflow.Orchestrate[groupcheckout.State, groupcheckout.Input, groupcheckout.Output](groupcheckout.Decider(), s, input, begins)
	return newSnap, cmds
}

// TestPartialFailureCompletesWithBothOutcomes verifies that once every
// guest has either checked out or failed, the workflow completes by
// reporting both the completed and failed guest sets.
func TestPartialFailureCompletesWithBothOutcomes(t *testing.T) {
	d := groupcheckout.Decider()
	s := snap{State: d.InitialState()}

	s, cmds := step(t, s, groupcheckout.Input{Kind: groupcheckout.InitiateGroupCheckout, GroupId: "group-123", GuestIds: []string{"g1", "g2"}}, true)
	if len(cmds) != 0 {
		t.Fatalf("expected no commands on initiation, got %v", cmds)
	}

	s, cmds = step(t, s, groupcheckout.Input{Kind: groupcheckout.GuestCheckedOut, GroupId: "group-123", GuestId: "g1"}, false)
	if len(cmds) != 0 {
		t.Fatalf("expected no commands while g2 still pending, got %v", cmds)
	}

	s, cmds = step(t, s, groupcheckout.Input{Kind: groupcheckout.GuestCheckoutFailed, GroupId: "group-123", GuestId: "g2", FailureReason: "balance"}, false)
	if len(cmds) != 2 {
		t.Fatalf("expected Send+Complete, got %d commands", len(cmds))
	}
	if cmds[0].Output.Kind != groupcheckout.GroupCheckoutFailed {
		t.Fatalf("expected GroupCheckoutFailed, got %v", cmds[0].Output.Kind)
	}
	if !reflect.DeepEqual(cmds[0].Output.Completed, []string{"g1"}) {
		t.Fatalf("expected completed=[g1], got %v", cmds[0].Output.Completed)
	}
	if !reflect.DeepEqual(cmds[0].Output.Failed, []string{"g2"}) {
		t.Fatalf("expected failed=[g2], got %v", cmds[0].Output.Failed)
	}
	if cmds[1].Kind != workflow.CommandComplete {
		t.Fatalf("expected Complete as second command")
	}
	if s.State.Status != groupcheckout.StatusFinished {
		t.Fatalf("expected Finished, got %v", s.State.Status)
	}
}

// TestTimeoutReportsRemainingGuestsAsPending verifies that a timeout while
// guests are still outstanding completes the workflow and reports exactly
// those guests as pending.
func TestTimeoutReportsRemainingGuestsAsPending(t *testing.T) {
	d := groupcheckout.Decider()
	s := snap{State: d.InitialState()}

	s, _ = step(t, s, groupcheckout.Input{Kind: groupcheckout.InitiateGroupCheckout, GroupId: "group-124", GuestIds: []string{"g1", "g2", "g3"}}, true)
	s, cmds := step(t, s, groupcheckout.Input{Kind: groupcheckout.GuestCheckedOut, GroupId: "group-124", GuestId: "g1"}, false)
	if len(cmds) != 0 {
		t.Fatalf("expected no commands with guests still pending, got %v", cmds)
	}

	s, cmds = step(t, s, groupcheckout.Input{Kind: groupcheckout.TimeoutGroupCheckout, GroupId: "group-124"}, false)
	if len(cmds) != 2 {
		t.Fatalf("expected Send+Complete, got %d commands", len(cmds))
	}
	if cmds[0].Output.Kind != groupcheckout.GroupCheckoutTimedOut {
		t.Fatalf("expected GroupCheckoutTimedOut, got %v", cmds[0].Output.Kind)
	}
	if !reflect.DeepEqual(cmds[0].Output.Pending, []string{"g2", "g3"}) {
		t.Fatalf("expected pending=[g2 g3], got %v", cmds[0].Output.Pending)
	}
	if s.State.Status != groupcheckout.StatusFinished {
		t.Fatalf("expected Finished, got %v", s.State.Status)
	}
}
