package chat

import (
	"fmt"
	"strings"
)

// NoSourcesPlaceholder is written when a web-results block yields no links.
const NoSourcesPlaceholder = "Web search sources: (none)"

// ShrinkWebResults reduces a verbose web-results block to a markdown list of
// its sources. The block carries "Result N: <title>" / "URL: <url>" line pairs
// among snippet and page text; everything except those pairs is discarded.
// Page text can be tens of kilobytes per turn, and once the answer exists only
// the attribution is worth persisting.
func ShrinkWebResults(content string) string {
	var links []string
	var title string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Result ") && strings.Contains(line, ": "):
			_, t, _ := strings.Cut(line, ": ")
			title = strings.TrimSpace(t)
		case strings.HasPrefix(line, "URL: ") && title != "":
			if url := strings.TrimSpace(line[len("URL: "):]); url != "" {
				links = append(links, fmt.Sprintf("- [%s](%s)", title, url))
			}
			title = ""
		}
	}

	if len(links) == 0 {
		return NoSourcesPlaceholder
	}
	return "Web search sources:\n\n" + strings.Join(links, "\n")
}

// compactHistory applies the save-time transform: every web_results message is
// shrunk to links and relabeled web_links. One-way; the live in-memory history
// keeps the full content until the process exits.
func compactHistory(history []Message) []Message {
	out := make([]Message, len(history))
	for i, m := range history {
		if m.Kind == KindWebResults {
			m.Content = ShrinkWebResults(m.Content)
			m.Kind = KindWebLinks
		}
		out[i] = m
	}
	return out
}
