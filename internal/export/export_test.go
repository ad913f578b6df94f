package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebastianszewc/localchat/internal/chat"
)

func sampleChat() *chat.Chat {
	return &chat.Chat{
		Title: "Lasers & Optics",
		Model: "llama3:latest",
		History: []chat.Message{
			{Role: chat.RoleSystem, Content: "be helpful"},
			{Role: chat.RoleUser, Content: "How do lasers work?"},
			{
				Role: chat.RoleAssistant,
				Kind: chat.KindWebResults,
				Content: "Web search results and page content.\n" +
					"Original user message: How do lasers work?\n" +
					"Search query used: how lasers work\n\n" +
					"Result 1: Laser - Encyclopedia\nURL: https://example.org/laser\n" +
					"Content:\nlots of page text here",
			},
			{Role: chat.RoleAssistant, Content: "Stimulated emission, in short.\n\n```go\nfunc main() {}\n```"},
		},
	}
}

func TestTranscript(t *testing.T) {
	out := Transcript(sampleChat())

	if !strings.HasPrefix(out, "# Lasers & Optics\n") {
		t.Errorf("missing title heading: %q", out[:40])
	}
	if strings.Contains(out, "be helpful") {
		t.Error("system prompt leaked into the transcript")
	}
	if !strings.Contains(out, "**You:**\n\nHow do lasers work?") {
		t.Error("missing user turn")
	}
	if !strings.Contains(out, "- [Laser - Encyclopedia](https://example.org/laser)") {
		t.Error("web-results block not shrunk to source links")
	}
	if strings.Contains(out, "lots of page text here") {
		t.Error("verbose page text leaked into the transcript")
	}
	if !strings.Contains(out, "Stimulated emission") {
		t.Error("missing assistant turn")
	}
}

func TestTranscriptCompactedLinks(t *testing.T) {
	ch := &chat.Chat{
		Title: "T",
		History: []chat.Message{
			{Role: chat.RoleAssistant, Kind: chat.KindWebLinks,
				Content: "Web search sources:\n\n- [A](https://a.example)"},
		},
	}
	out := Transcript(ch)
	if !strings.Contains(out, "- [A](https://a.example)") {
		t.Errorf("compacted links not carried through: %q", out)
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML(sampleChat())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(page, "<title>Lasers &amp; Optics</title>") {
		t.Error("title not escaped into <title>")
	}
	if !strings.Contains(page, `href="https://example.org/laser" target="_blank" rel="noopener noreferrer"`) {
		t.Error("external link missing target/rel attributes")
	}
	if !strings.Contains(page, "<pre") {
		t.Error("code block not rendered")
	}
	if !strings.Contains(page, "<details>") || !strings.Contains(page, "<summary>Sources</summary>") {
		t.Error("source links not wrapped in a collapsible block")
	}
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.md")
	if err := WriteMarkdown(sampleChat(), path); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "# Lasers & Optics") {
		t.Error("written file missing heading")
	}
}
