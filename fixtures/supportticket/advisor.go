package supportticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAdvisor implements TriageAdvisor by asking Claude to classify a
// ticket's severity: same client construction, system-prompt-as-separate-
// parameter idiom, and error wrapping as a typical chat-model adapter.
//
// Other LLM providers could implement the same TriageAdvisor interface with
// their own client underneath; only the Anthropic-backed implementation is
// coded here; swapping providers means swapping which advisor is
// constructed, not changing the decider.
type AnthropicAdvisor struct {
	apiKey    string
	modelName string
}

// NewAnthropicAdvisor constructs an AnthropicAdvisor. modelName defaults to
// a Claude Sonnet model when empty.
func NewAnthropicAdvisor(apiKey, modelName string) *AnthropicAdvisor {
	if modelName == "" {
		modelName = "claude-sonnet-4-5-20250929"
	}
	return &AnthropicAdvisor{apiKey: apiKey, modelName: modelName}
}

const triageSystemPrompt = `You triage customer support tickets. Given a subject and body, respond with exactly one word: "low", "normal", or "critical", reflecting how urgently this needs human on-call attention.`

// Triage implements TriageAdvisor.
func (a *AnthropicAdvisor) Triage(ctx context.Context, subject, body string) (Triage, error) {
	if ctx.Err() != nil {
		return Triage{}, ctx.Err()
	}
	if a.apiKey == "" {
		return Triage{}, errors.New("supportticket: anthropic API key is required")
	}

	client := anthropicsdk.NewClient(option.WithAPIKey(a.apiKey))

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.modelName),
		MaxTokens: 16,
		System:    []anthropicsdk.TextBlockParam{{Text: triageSystemPrompt}},
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(fmt.Sprintf("Subject: %s\nBody: %s", subject, body))),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return Triage{}, fmt.Errorf("supportticket: anthropic triage call failed: %w", err)
	}

	return Triage{Severity: parseSeverity(resp)}, nil
}

func parseSeverity(resp *anthropicsdk.Message) string {
	var text strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			text.WriteString(b.Text)
		}
	}

	switch strings.ToLower(strings.TrimSpace(text.String())) {
	case "critical":
		return "critical"
	case "low":
		return "low"
	default:
		return "normal"
	}
}
