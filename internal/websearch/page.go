package websearch

import (
	"context"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// userAgent identifies page fetches to origin servers.
const userAgent = "Mozilla/5.0 (compatible; localchat/1.0)"

// truncationMarker is appended when page text is cut at the character budget.
const truncationMarker = " …"

// maxFetchBody caps how much of a page body is read before extraction.
const maxFetchBody = 2 << 20

// skipElements are elements whose entire subtree carries no visible text.
var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
}

// FetchPageText fetches url and returns its visible text, truncated to
// maxChars. Best-effort: any failure, a non-HTML content type, or an empty
// extraction all yield ("", fetched=false/true) rather than an error. The
// fetched flag tells callers (and tests) whether the empty result came from
// a failed fetch or from a page that genuinely had no text.
func (c *Client) FetchPageText(ctx context.Context, pageURL string, maxChars int) (text string, fetched bool) {
	if strings.TrimSpace(pageURL) == "" {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}
	if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return "", false
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", false
	}

	return ExtractText(raw, maxChars), true
}

// ExtractText parses HTML and returns the visible text joined by single
// spaces, truncated to maxChars with a marker when cut. Script, style, and
// similar subtrees are discarded.
func ExtractText(raw []byte, maxChars int) string {
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return ""
	}

	var chunks []string
	collectText(doc, &chunks)
	text := strings.Join(chunks, " ")
	if text == "" {
		return ""
	}

	if maxChars > 0 && len([]rune(text)) > maxChars {
		text = string([]rune(text)[:maxChars]) + truncationMarker
	}
	return text
}

func collectText(n *html.Node, chunks *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
			*chunks = append(*chunks, s)
		}
		return
	case html.ElementNode:
		if skipElements[n.DataAtom] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, chunks)
	}
}
