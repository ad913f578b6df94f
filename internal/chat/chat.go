package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Chat is one conversation: a title, the model it talks to, and its history.
// History[0] is always a system message carrying the system prompt the chat
// was created with; it is not re-synced when the prompt template changes.
type Chat struct {
	ID      string    `json:"id,omitempty"`
	Title   string    `json:"title"`
	Model   string    `json:"model"`
	History []Message `json:"history"`
}

// Collection is the full set of chats plus which one is active.
type Collection struct {
	Chats        []Chat `json:"chats"`
	CurrentIndex int    `json:"current_index"`
}

// New creates a chat whose history starts with the given system prompt.
func New(title, model, systemPrompt string) Chat {
	model = strings.TrimSpace(model)
	return Chat{
		ID:    uuid.New().String(),
		Title: title,
		Model: model,
		History: []Message{
			{Role: RoleSystem, Content: systemPrompt},
		},
	}
}

// DefaultTitle returns the generated name for the n-th chat ("Chat 1", ...).
func DefaultTitle(n int) string {
	return fmt.Sprintf("Chat %d", n)
}

// HasDefaultTitle reports whether title still looks auto-generated. Only such
// chats are eligible for model-generated titles; a user rename sticks.
func HasDefaultTitle(title string) bool {
	title = strings.TrimSpace(title)
	return title == "" || strings.HasPrefix(strings.ToLower(title), "chat ")
}

// Active returns the active chat, or nil when the collection is empty.
func (c *Collection) Active() *Chat {
	if len(c.Chats) == 0 || c.CurrentIndex < 0 || c.CurrentIndex >= len(c.Chats) {
		return nil
	}
	return &c.Chats[c.CurrentIndex]
}

// ClampIndex forces CurrentIndex into [0, len-1].
func (c *Collection) ClampIndex() {
	if c.CurrentIndex < 0 {
		c.CurrentIndex = 0
	}
	if c.CurrentIndex > len(c.Chats)-1 {
		c.CurrentIndex = len(c.Chats) - 1
	}
}
