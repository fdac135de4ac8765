package supportticket_test

import (
	"context"
	"testing"

	"github.com/dshills/workflow-go/fixtures/supportticket"
	"github.com/dshills/workflow-go/workflow"
)

// fakeAdvisor returns a fixed Triage verdict, keyed by ticket subject, so
// tests don't depend on a live Anthropic API call.
type fakeAdvisor struct {
	bySubject map[string]supportticket.Triage
}

func (f fakeAdvisor) Triage(_ context.Context, subject, _ string) (supportticket.Triage, error) {
	if v, ok := f.bySubject[subject]; ok {
		return v, nil
	}
	return supportticket.Triage{Severity: "normal"}, nil
}

// TestScenarioH_AsyncTriageAdvisory exercises the async decider path: a
// critical ticket escalates (Send ReplyToCustomer + Send EscalateToOnCall),
// a low-severity ticket only replies.
func TestScenarioH_AsyncTriageAdvisory(t *testing.T) {
	ticket := supportticket.NewTicket()
	advisor := fakeAdvisor{bySubject: map[string]supportticket.Triage{
		"prod down": {Severity: "critical"},
		"typo":      {Severity: "low"},
	}}

	ctx := context.Background()

	snap1 := workflow.Snapshot[supportticket.State, supportticket.Input, supportticket.Output]{State: ticket.InitialState()}
	snap1, cmds1, _, err := workflow.OrchestrateAsync[supportticket.State, supportticket.Input, supportticket.Output, supportticket.TriageAdvisor](
		ctx, ticket, snap1, supportticket.Input{Kind: supportticket.OpenTicket, TicketId: "ticket-1", Subject: "prod down"}, true, advisor,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds1) != 2 {
		t.Fatalf("expected Reply+Escalate for critical ticket, got %d commands: %+v", len(cmds1), cmds1)
	}
	if cmds1[1].Output.Kind != supportticket.EscalateToOnCall {
		t.Fatalf("expected second command EscalateToOnCall, got %v", cmds1[1].Output.Kind)
	}
	if snap1.State.Status != supportticket.StatusEscalated {
		t.Fatalf("expected Escalated, got %v", snap1.State.Status)
	}

	snap2 := workflow.Snapshot[supportticket.State, supportticket.Input, supportticket.Output]{State: ticket.InitialState()}
	snap2, cmds2, _, err := workflow.OrchestrateAsync[supportticket.State, supportticket.Input, supportticket.Output, supportticket.TriageAdvisor](
		ctx, ticket, snap2, supportticket.Input{Kind: supportticket.OpenTicket, TicketId: "ticket-2", Subject: "typo"}, true, advisor,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds2) != 1 {
		t.Fatalf("expected Reply only for low-severity ticket, got %d commands: %+v", len(cmds2), cmds2)
	}
	if snap2.State.Status != supportticket.StatusOpen {
		t.Fatalf("expected Open (not escalated), got %v", snap2.State.Status)
	}
}

// TestScenarioF_QueryDoesNotMutate exercises the universal Reply/query
// property: a query input returns exactly one Reply command and leaves
// state unchanged.
func TestScenarioF_QueryDoesNotMutate(t *testing.T) {
	ticket := supportticket.NewTicket()
	snap := workflow.Snapshot[supportticket.State, supportticket.Input, supportticket.Output]{
		State: supportticket.State{Status: supportticket.StatusOpen, TicketId: "ticket-3", Severity: "normal"},
	}

	newSnap, cmds, events := workflow.Orchestrate[supportticket.State, supportticket.Input, supportticket.Output](
		ticket, snap, supportticket.Input{Kind: supportticket.QueryStatus, TicketId: "ticket-3"}, false,
	)

	if len(cmds) != 1 || cmds[0].Kind != workflow.CommandReply {
		t.Fatalf("expected exactly one Reply command, got %+v", cmds)
	}
	if newSnap.State != snap.State {
		t.Fatalf("expected state unchanged, got %+v vs %+v", newSnap.State, snap.State)
	}

	var sawReceived, sawReplied bool
	for _, e := range events {
		switch e.Kind {
		case workflow.EventReceived:
			sawReceived = true
		case workflow.EventReplied:
			sawReplied = true
		}
	}
	if !sawReceived || !sawReplied {
		t.Fatalf("expected Received and Replied events, got %+v", events)
	}
}
