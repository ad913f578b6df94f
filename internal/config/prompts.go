package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sebastianszewc/localchat/internal/logging"
)

// Prompt template keys.
const (
	PromptSystem        = "system"
	PromptSearchPlanner = "search_planner"
	PromptWebFollowup   = "web_followup"
	PromptTitlePlanner  = "title_planner"
)

// defaultPrompts are the built-in templates. prompts.json may override any of
// them; unknown keys there are ignored.
var defaultPrompts = map[string]string{
	PromptSystem: "You are a helpful local assistant. Answer concisely and " +
		"use $...$ for inline math with no spaces inside the delimiters.",

	PromptSearchPlanner: "You are a search query planner.\n\n" +
		"Here is the conversation so far:\n\n" +
		"{TRANSCRIPT}\n\n" +
		"Determine the single best internet search query the user would want to " +
		"run right now to help answer their most recent question.\n\n" +
		"Respond with ONLY the search query text, nothing else.",

	PromptWebFollowup: "You are answering the user based solely on the web search " +
		"results and page content above.\n\n" +
		"Use only information that is clearly supported by those results. If " +
		"the answer is unclear or not present, say that you don't know.",

	PromptTitlePlanner: "You generate short, descriptive titles for chat conversations.\n" +
		"Rules:\n" +
		"- Use at most 6 words.\n" +
		"- No quotes around the title.\n" +
		"- No prefixes like 'Title:' or 'Chat:'.\n" +
		"- Make it specific, based on the user's question.\n\n" +
		"User's first message:\n" +
		"{FIRST_MESSAGE}\n\n" +
		"Return ONLY the title, nothing else.",
}

// Prompt returns the template for key, with any prompts.json override applied.
func (l *Loader) Prompt(key string) string {
	overrides := l.promptOverrides()
	if v, ok := overrides[key]; ok && v != "" {
		return v
	}
	return defaultPrompts[key]
}

// SystemPrompt is the template placed at history[0] of every new chat.
func (l *Loader) SystemPrompt() string { return l.Prompt(PromptSystem) }

func (l *Loader) promptOverrides() map[string]string {
	raw, err := os.ReadFile(filepath.Join(l.dir, "prompts.json"))
	if err != nil {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		logging.Errorf("parsing prompts.json: %v", err)
		return nil
	}
	return m
}
