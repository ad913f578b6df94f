// Package websearch is the gateway to a SearXNG instance and to plain page
// fetches. Search either returns a fully parsed result list or an error;
// page fetches are best-effort and never fail the caller.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultSearchURL is the local SearXNG endpoint.
const DefaultSearchURL = "http://127.0.0.1:8888/search"

// ErrEmptyQuery is returned for a blank search query.
var ErrEmptyQuery = errors.New("websearch: empty query")

// ErrNoResults marks a search that succeeded but kept zero results. The
// orchestrator surfaces it; Search itself returns an empty slice.
var ErrNoResults = errors.New("websearch: no results")

// SearchError is a transport, status, or decode failure against the search
// service.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string { return fmt.Sprintf("websearch: request failed: %v", e.Err) }
func (e *SearchError) Unwrap() error { return e.Err }

// Result is one normalized search hit. URL is the only required field;
// hits without one are discarded before they reach the caller.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Options bound a single search call.
type Options struct {
	MaxResults int
	// Language "auto" (or "") omits the parameter entirely; the upstream
	// default differs from an explicit value.
	Language   string
	SafeSearch int
	Categories string // defaults to "general"
}

// Client calls the search service and fetches result pages.
type Client struct {
	searchURL string
	http      *http.Client
}

// NewClient creates a client for the given search URL ("" uses the default).
func NewClient(searchURL string) *Client {
	searchURL = strings.TrimSpace(searchURL)
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Client{
		searchURL: searchURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Search runs one query and returns up to opts.MaxResults hits in upstream
// order. No re-ranking, no partial success: a full list or an error.
func (c *Client) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	if opts.Language != "" && opts.Language != "auto" {
		params.Set("language", opts.Language)
	}
	params.Set("safesearch", strconv.Itoa(opts.SafeSearch))
	categories := opts.Categories
	if categories == "" {
		categories = "general"
	}
	params.Set("categories", categories)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &SearchError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SearchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SearchError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var body struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &SearchError{Err: err}
	}

	max := opts.MaxResults
	if max <= 0 {
		max = 10
	}

	results := make([]Result, 0, max)
	for _, item := range body.Results {
		u := strings.TrimSpace(item.URL)
		if u == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = u
		}
		snippet := strings.TrimSpace(item.Content)
		if snippet == "" {
			snippet = strings.TrimSpace(item.Snippet)
		}
		results = append(results, Result{Title: title, URL: u, Snippet: snippet})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}
