// Package planner holds the two small model-assisted helpers: rewriting a
// conversation into a search query, and deriving a chat title. Both swallow
// model failures and fall back deterministically; neither may ever abort a
// turn.
package planner

import (
	"context"
	"strings"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/logging"
)

// transcriptBudget bounds the conversation text handed to the query planner,
// keeping the most recent characters.
const transcriptBudget = 8000

// ModelCaller is the single-shot model call both helpers need.
type ModelCaller interface {
	Quick(ctx context.Context, model, prompt string) (string, error)
}

// PromptSource supplies prompt templates.
type PromptSource interface {
	Prompt(key string) string
}

// Outcome is a helper result. UsedFallback distinguishes "the model answered"
// from "we substituted the deterministic fallback" — the user-facing outcome
// is the same either way, but callers and tests can observe which path ran.
type Outcome struct {
	Text         string
	UsedFallback bool
}

// Planner bundles the model caller and prompt templates.
type Planner struct {
	model   ModelCaller
	prompts PromptSource
}

// New creates a Planner.
func New(model ModelCaller, prompts PromptSource) *Planner {
	return &Planner{model: model, prompts: prompts}
}

// BuildQuery asks the model for the single best search query given the
// conversation. Failure or an empty reply falls back to rawInput verbatim.
func (p *Planner) BuildQuery(ctx context.Context, history []chat.Message, rawInput, model string) Outcome {
	rawInput = strings.TrimSpace(rawInput)
	if rawInput == "" {
		return Outcome{UsedFallback: true}
	}

	prompt := strings.ReplaceAll(
		p.prompts.Prompt(config.PromptSearchPlanner),
		"{TRANSCRIPT}", Transcript(history),
	)

	reply, err := p.model.Quick(ctx, model, prompt)
	if err != nil {
		logging.Warnf("search planner: %v (falling back to raw input)", err)
		return Outcome{Text: rawInput, UsedFallback: true}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Outcome{Text: rawInput, UsedFallback: true}
	}
	return Outcome{Text: reply}
}

// Transcript renders user/assistant turns as "You:"/"Model:" lines,
// tail-truncated to the budget so the most recent context survives.
func Transcript(history []chat.Message) string {
	var lines []string
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		switch m.Role {
		case chat.RoleUser:
			lines = append(lines, "You: "+content)
		case chat.RoleAssistant:
			lines = append(lines, "Model: "+content)
		}
	}
	txt := strings.Join(lines, "\n")
	if r := []rune(txt); len(r) > transcriptBudget {
		txt = string(r[len(r)-transcriptBudget:])
	}
	return txt
}
