// Package config reads and writes the JSON settings documents and the prompt
// templates. All loads are best-effort: a missing or broken file yields the
// documented defaults, never an error to the caller.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sebastianszewc/localchat/internal/logging"
)

// FallbackModel is used when model discovery fails and no default is saved.
const FallbackModel = "llama3:latest"

// WebSearchSettings controls the search-augmented pipeline. The orchestrator
// takes a snapshot at the start of each turn; edits mid-flight never affect a
// turn already running.
type WebSearchSettings struct {
	// Enabled is the global switch for the search toggle in the UI.
	Enabled bool `json:"enabled"`
	// UsePlanner rewrites the conversation into a search query via the model;
	// when false the raw user text is the query.
	UsePlanner bool `json:"use_planner"`

	MaxResults      int `json:"max_results"`
	MaxPages        int `json:"max_pages"`
	MaxCharsPerPage int `json:"max_chars_per_page"`

	// Language "auto" omits the parameter so the search service applies its
	// own default; anything else is passed through.
	Language   string `json:"language"`
	SafeSearch int    `json:"safesearch"` // 0=off, 1=moderate, 2=strict

	// ShowQuery appends a "[web search query] ..." system line to the chat.
	ShowQuery bool `json:"show_query"`
	// StrictWebOnly injects a system instruction to answer only from the
	// fetched results.
	StrictWebOnly bool `json:"strict_web_only"`
}

// DefaultWebSearchSettings returns the documented defaults.
func DefaultWebSearchSettings() WebSearchSettings {
	return WebSearchSettings{
		Enabled:         true,
		UsePlanner:      true,
		MaxResults:      10,
		MaxPages:        5,
		MaxCharsPerPage: 6000,
		Language:        "en",
		SafeSearch:      1,
		ShowQuery:       true,
		StrictWebOnly:   true,
	}
}

// Settings is the settings.json document. Unknown keys are ignored on read
// and preserved fields rewritten whole on save.
type Settings struct {
	DefaultModel string            `json:"default_model,omitempty"`
	AutoTitle    *bool             `json:"auto_title_planner,omitempty"`
	WebSearch    WebSearchSettings `json:"web_search"`
}

// AutoTitleEnabled reports whether title generation is on (default: yes).
func (s Settings) AutoTitleEnabled() bool {
	return s.AutoTitle == nil || *s.AutoTitle
}

// Loader reads settings documents from a data directory.
type Loader struct {
	dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the data directory the loader reads from.
func (l *Loader) Dir() string { return l.dir }

// SettingsPath returns the location of settings.json.
func (l *Loader) SettingsPath() string { return filepath.Join(l.dir, "settings.json") }

// Settings loads settings.json, overlaying it on the defaults.
func (l *Loader) Settings() Settings {
	s := Settings{WebSearch: DefaultWebSearchSettings()}

	raw, err := os.ReadFile(l.SettingsPath())
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Errorf("loading settings: %v", err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		logging.Errorf("parsing settings.json: %v", err)
		return Settings{WebSearch: DefaultWebSearchSettings()}
	}
	return s
}

// WebSearch returns a fresh snapshot of the web-search settings.
func (l *Loader) WebSearch() WebSearchSettings {
	return l.Settings().WebSearch
}

// SaveSettings writes the document back. Best-effort.
func (l *Loader) SaveSettings(s Settings) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		logging.Errorf("encoding settings: %v", err)
		return
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		logging.Errorf("creating data dir: %v", err)
		return
	}
	if err := os.WriteFile(l.SettingsPath(), raw, 0o644); err != nil {
		logging.Errorf("saving settings: %v", err)
	}
}

// SaveDefaultModel records the preferred model, keeping other fields intact.
func (l *Loader) SaveDefaultModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	s := l.Settings()
	s.DefaultModel = model
	l.SaveSettings(s)
}
