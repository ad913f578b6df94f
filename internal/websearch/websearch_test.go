package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchLanguageParam(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"results": [{"title": "t", "url": "https://a.example", "content": "s"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/search")

	// "auto" must omit the language parameter entirely.
	if _, err := c.Search(context.Background(), "q", Options{Language: "auto", SafeSearch: 1}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, present := query["language"]; present {
		t.Error(`language="auto" sent a language parameter`)
	}
	if got := query["safesearch"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("safesearch = %v, want [1]", got)
	}
	if got := query["categories"]; len(got) != 1 || got[0] != "general" {
		t.Errorf("categories = %v, want [general]", got)
	}
	if got := query["format"]; len(got) != 1 || got[0] != "json" {
		t.Errorf("format = %v, want [json]", got)
	}

	// An explicit language is passed through.
	if _, err := c.Search(context.Background(), "q", Options{Language: "en"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := query["language"]; len(got) != 1 || got[0] != "en" {
		t.Errorf(`language = %v, want [en]`, got)
	}
}

func TestSearchFiltersAndTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"title": "no url", "content": "dropped"},
			{"title": "", "url": "https://one.example", "snippet": "via snippet"},
			{"title": "two", "url": "https://two.example", "content": "via content"},
			{"title": "three", "url": "https://three.example"},
			{"title": "four", "url": "https://four.example"}
		]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Search(context.Background(), "q", Options{MaxResults: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("results = %d, want 3", len(got))
	}
	// Upstream order preserved; url-less hit skipped, not counted.
	if got[0].URL != "https://one.example" || got[2].URL != "https://three.example" {
		t.Errorf("order wrong: %+v", got)
	}
	// Missing title falls back to the URL; snippet may come from either field.
	if got[0].Title != "https://one.example" {
		t.Errorf("title fallback = %q", got[0].Title)
	}
	if got[0].Snippet != "via snippet" || got[1].Snippet != "via content" {
		t.Errorf("snippets = %q, %q", got[0].Snippet, got[1].Snippet)
	}
}

func TestSearchErrors(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/search")

	if _, err := c.Search(context.Background(), "   ", Options{}); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("blank query err = %v, want ErrEmptyQuery", err)
	}

	var se *SearchError
	if _, err := c.Search(context.Background(), "q", Options{}); !errors.As(err, &se) {
		t.Errorf("unreachable host err = %v, want SearchError", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()
	if _, err := NewClient(srv.URL).Search(context.Background(), "q", Options{}); !errors.As(err, &se) {
		t.Errorf("status err = %v, want SearchError", err)
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer bad.Close()
	if _, err := NewClient(bad.URL).Search(context.Background(), "q", Options{}); !errors.As(err, &se) {
		t.Errorf("decode err = %v, want SearchError", err)
	}
}

func TestFetchPageText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); !strings.Contains(got, "localchat") {
			t.Errorf("user agent = %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><style>.x{color:red}</style>
			<script>alert("hidden")</script></head>
			<body><h1>Heading</h1><p>First   paragraph.</p>
			<noscript>nope</noscript><p>Second.</p></body></html>`))
	}))
	defer srv.Close()

	c := NewClient("")
	text, fetched := c.FetchPageText(context.Background(), srv.URL, 0)
	if !fetched {
		t.Fatal("fetched = false for a good page")
	}
	if text != "Heading First paragraph. Second." {
		t.Errorf("text = %q", text)
	}
	for _, banned := range []string{"alert", "color:red", "nope"} {
		if strings.Contains(text, banned) {
			t.Errorf("extracted text contains %q", banned)
		}
	}
}

func TestFetchPageTextTruncation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>" + strings.Repeat("word ", 100) + "</p>"))
	}))
	defer srv.Close()

	text, fetched := NewClient("").FetchPageText(context.Background(), srv.URL, 20)
	if !fetched {
		t.Fatal("fetched = false")
	}
	if !strings.HasSuffix(text, truncationMarker) {
		t.Errorf("truncated text missing marker: %q", text)
	}
	if got := len([]rune(strings.TrimSuffix(text, truncationMarker))); got != 20 {
		t.Errorf("truncated to %d runes, want 20", got)
	}
}

func TestFetchPageTextBestEffort(t *testing.T) {
	c := NewClient("")

	// Non-HTML content is ignored.
	jsonSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not": "html"}`))
	}))
	defer jsonSrv.Close()
	if text, fetched := c.FetchPageText(context.Background(), jsonSrv.URL, 100); text != "" || fetched {
		t.Errorf("non-HTML: text=%q fetched=%v, want empty/false", text, fetched)
	}

	// Failing fetches yield empty text, never an error.
	if text, fetched := c.FetchPageText(context.Background(), "http://127.0.0.1:1/", 100); text != "" || fetched {
		t.Errorf("unreachable: text=%q fetched=%v", text, fetched)
	}
	if text, fetched := c.FetchPageText(context.Background(), "", 100); text != "" || fetched {
		t.Errorf("empty url: text=%q fetched=%v", text, fetched)
	}

	errSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer errSrv.Close()
	if text, fetched := c.FetchPageText(context.Background(), errSrv.URL, 100); text != "" || fetched {
		t.Errorf("error status: text=%q fetched=%v", text, fetched)
	}
}
