// Package chat holds the conversation data model: messages, chats, the chat
// collection, and the JSON store that persists them.
package chat

import "strings"

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind is presentation/compaction metadata attached to a message. It is never
// forwarded to the model service.
type Kind string

const (
	// KindPlain is an ordinary message.
	KindPlain Kind = ""
	// KindWebResults marks the verbose web-search context block appended
	// during a search-augmented turn. Compacted to KindWebLinks on save.
	KindWebResults Kind = "web_results"
	// KindWebLinks marks an already-compacted links-only block.
	KindWebLinks Kind = "web_links"
)

// Message is one entry in a chat history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Kind    Kind   `json:"kind,omitempty"`
}

// NormalizeRoles returns a copy of history where every role outside
// system/user/assistant is coerced to user. Order and content are preserved.
// The model service only understands those three roles.
func NormalizeRoles(history []Message) []Message {
	out := make([]Message, len(history))
	for i, m := range history {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			m.Role = RoleUser
		}
		out[i] = m
	}
	return out
}

// FirstUserMessage returns the first non-empty user message in history, or "".
func FirstUserMessage(history []Message) string {
	for _, m := range history {
		if m.Role != RoleUser {
			continue
		}
		if s := strings.TrimSpace(m.Content); s != "" {
			return s
		}
	}
	return ""
}
