// Package supportticket is a seed fixture workflow exercising the async
// decider variant: opening a ticket consults a TriageAdvisor collaborator
// (typically LLM-backed) before deciding whether to escalate. It also
// exercises the Reply/query path shared by all workflows.
package supportticket

import (
	"context"

	"github.com/dshills/workflow-go/workflow"
)

// InputKind tags the variant of an Input.
type InputKind string

const (
	OpenTicket   InputKind = "OpenTicket"
	AgentReplied InputKind = "AgentReplied"
	CloseTicket  InputKind = "CloseTicket"
	QueryStatus  InputKind = "QueryStatus"
)

// Input is the support-ticket workflow's input sum type.
type Input struct {
	Kind     InputKind
	TicketId string
	Subject  string
	Body     string
	Reply    string
}

// OutputKind tags the variant of an Output.
type OutputKind string

const (
	EscalateToOnCall OutputKind = "EscalateToOnCall"
	ReplyToCustomer  OutputKind = "ReplyToCustomer"
	StatusReport     OutputKind = "StatusReport"
)

// Output is the support-ticket workflow's output sum type.
type Output struct {
	Kind     OutputKind
	TicketId string
	Severity string
	Message  string
}

// Status enumerates the ticket's coarse lifecycle stage.
type Status string

const (
	StatusNone      Status = ""
	StatusOpen      Status = "Open"
	StatusEscalated Status = "Escalated"
	StatusClosed    Status = "Closed"
)

// State is the support-ticket workflow's state.
type State struct {
	Status   Status
	TicketId string
	Subject  string
	Severity string
}

// RouteByTicketId is the routing function: every input for a given ticket
// lands on the same instance, keyed "ticket:<TicketId>".
func RouteByTicketId(input Input) string {
	return "ticket:" + input.TicketId
}

// Triage is the advisory verdict a TriageAdvisor returns for an opening
// ticket.
type Triage struct {
	Severity string // e.g. "low", "critical"
}

// TriageAdvisor is the typed collaborator AsyncDecider.DecideAsync consults
// when a ticket is opened. Concrete implementations wrap an LLM provider
// SDK (see AnthropicAdvisor); any implementation satisfying this interface
// is swappable without touching the decider.
type TriageAdvisor interface {
	Triage(ctx context.Context, subject, body string) (Triage, error)
}

// Ticket implements both Decider[State, Input, Output] (for Evolve/the
// synchronous commands) and AsyncDecider[State, Input, Output, TriageAdvisor]
// (for the opening cycle's advisor consultation).
type Ticket struct{}

// NewTicket returns the support-ticket decider.
func NewTicket() Ticket { return Ticket{} }

// InitialState implements Decider.
func (Ticket) InitialState() State { return State{Status: StatusNone} }

// Decide implements Decider for every input except OpenTicket, which only
// AsyncDecider.DecideAsync handles (it needs the TriageAdvisor). Decide
// still must be total: an OpenTicket reaching the synchronous path (e.g. a
// caller that bypasses DecideAsync) is treated as an unhandled (input,
// state) pair and returns nil, like any other case this switch doesn't
// recognize.
func (Ticket) Decide(input Input, state State) []workflow.Command[Output] {
	switch input.Kind {
	case AgentReplied:
		if state.Status == StatusClosed {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Send(Output{Kind: ReplyToCustomer, TicketId: input.TicketId, Message: input.Reply}),
		}

	case CloseTicket:
		if state.Status == StatusClosed {
			return nil
		}
		return []workflow.Command[Output]{
			workflow.Complete[Output](),
		}

	case QueryStatus:
		return []workflow.Command[Output]{
			workflow.Reply(Output{Kind: StatusReport, TicketId: state.TicketId, Severity: state.Severity, Message: string(state.Status)}),
		}

	default:
		return nil
	}
}

// DecideAsync implements AsyncDecider for OpenTicket, consulting advisor for
// a severity triage before deciding whether to escalate.
func (Ticket) DecideAsync(ctx context.Context, input Input, state State, advisor TriageAdvisor) ([]workflow.Command[Output], error) {
	if input.Kind != OpenTicket {
		return nil, nil
	}

	verdict, err := advisor.Triage(ctx, input.Subject, input.Body)
	if err != nil {
		return nil, err
	}

	commands := []workflow.Command[Output]{
		workflow.Send(Output{Kind: ReplyToCustomer, TicketId: input.TicketId, Message: "Thanks, we're on it."}),
	}
	if verdict.Severity == "critical" {
		commands = append(commands, workflow.Send(Output{Kind: EscalateToOnCall, TicketId: input.TicketId, Severity: verdict.Severity}))
	}

	return commands, nil
}

// Evolve implements Decider.
func (Ticket) Evolve(state State, event workflow.WorkflowEvent[Input, Output]) State {
	if event.Kind != workflow.EventInitiatedBy && event.Kind != workflow.EventReceived {
		if event.Kind == workflow.EventSent && event.Output.Kind == EscalateToOnCall {
			state.Status = StatusEscalated
			state.Severity = event.Output.Severity
		}
		return state
	}

	input := event.Input
	switch input.Kind {
	case OpenTicket:
		state.Status = StatusOpen
		state.TicketId = input.TicketId
		state.Subject = input.Subject
	case CloseTicket:
		if state.Status != StatusClosed {
			state.Status = StatusClosed
		}
	}

	return state
}
