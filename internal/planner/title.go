package planner

import (
	"context"
	"strings"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/logging"
)

// maxTitleLen cuts titles at a character (not word) boundary.
const maxTitleLen = 80

// fallbackTitle is used when no user message exists to derive a title from.
const fallbackTitle = "New chat"

// BuildTitle asks the model for a short chat title based on the first user
// message. Failure or an empty reply falls back to the first line of that
// message; with no user message at all the outcome text is empty and the
// caller should skip retitling.
func (p *Planner) BuildTitle(ctx context.Context, history []chat.Message, model string) Outcome {
	first := chat.FirstUserMessage(history)
	if first == "" {
		return Outcome{UsedFallback: true}
	}

	prompt := strings.ReplaceAll(
		p.prompts.Prompt(config.PromptTitlePlanner),
		"{FIRST_MESSAGE}", first,
	)

	reply, err := p.model.Quick(ctx, model, prompt)
	if err != nil {
		logging.Warnf("title planner: %v (falling back to first message)", err)
		return Outcome{Text: derivedTitle(first), UsedFallback: true}
	}

	title := postProcessTitle(reply)
	if title == "" {
		return Outcome{Text: derivedTitle(first), UsedFallback: true}
	}
	return Outcome{Text: title}
}

// postProcessTitle collapses the model reply to a single line, strips one
// layer of surrounding quotes, and enforces the length cap.
func postProcessTitle(raw string) string {
	title := strings.TrimSpace(strings.ReplaceAll(raw, "\n", " "))

	if len(title) >= 2 {
		if (strings.HasPrefix(title, `"`) && strings.HasSuffix(title, `"`)) ||
			(strings.HasPrefix(title, "'") && strings.HasSuffix(title, "'")) {
			title = strings.TrimSpace(title[1 : len(title)-1])
		}
	}

	return truncateTitle(title)
}

// derivedTitle is the deterministic fallback: first line of the first user
// message, truncated.
func derivedTitle(firstMsg string) string {
	line := firstMsg
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = truncateTitle(strings.TrimSpace(line))
	if line == "" {
		return fallbackTitle
	}
	return line
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > maxTitleLen {
		title = strings.TrimRight(string(runes[:maxTitleLen]), " ")
	}
	return title
}
