// Package export renders a chat transcript as a markdown document or a
// standalone HTML page.
package export

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/sebastianszewc/localchat/internal/chat"
)

var md goldmark.Markdown

func init() {
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
}

// Transcript renders the chat as a markdown document. The system prompt is
// omitted; web-results context blocks appear under a "Sources" heading in
// their compacted link form.
func Transcript(ch *chat.Chat) string {
	return render(ch, false)
}

func render(ch *chat.Chat, collapsible bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ch.Title)
	if ch.Model != "" {
		fmt.Fprintf(&b, "_Model: %s_\n\n", ch.Model)
	}

	for _, m := range ch.History {
		switch {
		case m.Role == chat.RoleSystem:
			continue
		case m.Kind == chat.KindWebResults || m.Kind == chat.KindWebLinks:
			links := m.Content
			if m.Kind == chat.KindWebResults {
				links = chat.ShrinkWebResults(m.Content)
			}
			if collapsible {
				b.WriteString("<details>\n<summary>Sources</summary>\n\n")
				b.WriteString(links)
				b.WriteString("\n\n</details>\n\n")
			} else {
				b.WriteString("### Sources\n\n")
				b.WriteString(links)
				b.WriteString("\n\n")
			}
		case m.Role == chat.RoleUser:
			b.WriteString("**You:**\n\n")
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		default:
			b.WriteString("**Assistant:**\n\n")
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// HTML renders the chat as a self-contained HTML page. Source-link blocks are
// wrapped in collapsible <details> elements.
func HTML(ch *chat.Chat) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(render(ch, true)), &buf); err != nil {
		return "", fmt.Errorf("rendering transcript: %w", err)
	}
	body := processExternalLinks(buf.String())
	return fmt.Sprintf(pageTemplate, htmlEscape(ch.Title), body), nil
}

// WriteMarkdown writes the markdown transcript to path.
func WriteMarkdown(ch *chat.Chat, path string) error {
	return os.WriteFile(path, []byte(Transcript(ch)), 0o644)
}

// WriteHTML writes the HTML page to path.
func WriteHTML(ch *chat.Chat, path string) error {
	page, err := HTML(ch)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(page), 0o644)
}

var linkRe = regexp.MustCompile(`<a href="(https?://[^"]*)"`)

func processExternalLinks(s string) string {
	return linkRe.ReplaceAllStringFunc(s, func(match string) string {
		return match + ` target="_blank" rel="noopener noreferrer"`
	})
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem;
       font-family: system-ui, sans-serif; line-height: 1.6; color: #222; }
pre { background: #272822; color: #f8f8f2; padding: 0.8rem; overflow-x: auto;
      border-radius: 4px; }
code { font-size: 0.9em; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem;
             color: #555; }
h3 { color: #555; }
</style>
</head>
<body>
%s
</body>
</html>
`
