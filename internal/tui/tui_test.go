package tui

import (
	"strings"
	"testing"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/orch"
)

func TestFormatMessage(t *testing.T) {
	th := newTheme()

	if lines := FormatMessage(chat.Message{Role: chat.RoleSystem, Content: "hidden"}, th); lines != nil {
		t.Errorf("system message rendered: %v", lines)
	}

	lines := FormatMessage(chat.Message{Role: chat.RoleUser, Content: "hi\nthere"}, th)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "You") || !strings.Contains(joined, "there") {
		t.Errorf("user message = %q", joined)
	}

	web := chat.Message{
		Role: chat.RoleAssistant,
		Kind: chat.KindWebResults,
		Content: "Result 1: Title\nURL: https://a.example\nContent:\n" +
			strings.Repeat("page text ", 100),
	}
	joined = strings.Join(FormatMessage(web, th), "\n")
	if !strings.Contains(joined, "[Title](https://a.example)") {
		t.Errorf("web results not collapsed to links: %q", joined)
	}
	if strings.Contains(joined, "page text") {
		t.Error("verbose page text rendered in the transcript")
	}
}

// The renderer must never read the chat collection while a turn is in flight:
// the coordinator goroutine owns it then. sessionView is the cache that makes
// that possible — loaded from the store at idle, advanced from events after.
func TestSessionView(t *testing.T) {
	col := &chat.Collection{
		Chats: []chat.Chat{
			{Title: "Chat 1", Model: "llama3:latest"},
			{Title: "Chat 2", Model: "mistral"},
		},
		CurrentIndex: 1,
	}

	var v sessionView
	v.loadFrom(col)

	if v.title() != "Chat 2" || v.modelName() != "mistral" || v.current != 1 {
		t.Fatalf("view after load = %+v", v)
	}

	// A mid-turn title event updates the cache; the store is not consulted.
	col.Chats[1].Title = "store changed behind our back"
	v.apply(orch.TitleChanged{ChatIndex: 1, Title: "Mistral Basics"})
	if v.title() != "Mistral Basics" {
		t.Errorf("title after event = %q", v.title())
	}

	// Out-of-range and unrelated events are ignored.
	v.apply(orch.TitleChanged{ChatIndex: 9, Title: "x"})
	v.apply(orch.TurnStarted{ChatIndex: 1})
	if v.title() != "Mistral Basics" {
		t.Errorf("title after ignored events = %q", v.title())
	}
}

func TestSessionViewEmptyCollection(t *testing.T) {
	var v sessionView
	v.loadFrom(&chat.Collection{})
	if v.title() != "" {
		t.Errorf("title = %q, want empty", v.title())
	}
	if v.modelName() != config.FallbackModel {
		t.Errorf("model = %q, want fallback", v.modelName())
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("short", 10); got != "short" {
		t.Errorf("truncateLine(short) = %q", got)
	}
	if got := truncateLine("a long chat title here", 10); len([]rune(got)) != 10 {
		t.Errorf("truncated length = %d, want 10", len([]rune(got)))
	}
}
