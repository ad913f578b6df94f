package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettingsDefaults(t *testing.T) {
	l := NewLoader(t.TempDir())

	s := l.Settings()
	ws := s.WebSearch
	if !ws.Enabled || !ws.UsePlanner || !ws.ShowQuery || !ws.StrictWebOnly {
		t.Errorf("boolean defaults wrong: %+v", ws)
	}
	if ws.MaxResults != 10 || ws.MaxPages != 5 || ws.MaxCharsPerPage != 6000 {
		t.Errorf("limit defaults wrong: %+v", ws)
	}
	if ws.Language != "en" || ws.SafeSearch != 1 {
		t.Errorf("search defaults wrong: %+v", ws)
	}
	if !s.AutoTitleEnabled() {
		t.Error("auto title should default to enabled")
	}
}

func TestSettingsOverlayAndUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	doc := `{
	  "default_model": "mistral:7b",
	  "auto_title_planner": false,
	  "some_future_key": {"ignored": true},
	  "web_search": {"language": "auto", "max_pages": 2, "use_planner": false,
	    "enabled": true, "max_results": 10, "max_chars_per_page": 6000,
	    "safesearch": 1, "show_query": true, "strict_web_only": true}
	}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir)
	s := l.Settings()
	if s.DefaultModel != "mistral:7b" {
		t.Errorf("default model = %q", s.DefaultModel)
	}
	if s.AutoTitleEnabled() {
		t.Error("auto title should be disabled")
	}
	if s.WebSearch.Language != "auto" || s.WebSearch.MaxPages != 2 || s.WebSearch.UsePlanner {
		t.Errorf("web search overlay wrong: %+v", s.WebSearch)
	}
}

func TestSettingsBrokenFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewLoader(dir).Settings()
	if s.WebSearch.MaxResults != 10 {
		t.Errorf("broken file should yield defaults, got %+v", s.WebSearch)
	}
}

func TestSaveDefaultModelKeepsOtherFields(t *testing.T) {
	l := NewLoader(t.TempDir())
	s := l.Settings()
	s.WebSearch.MaxPages = 3
	l.SaveSettings(s)

	l.SaveDefaultModel("qwen3:4b")
	got := l.Settings()
	if got.DefaultModel != "qwen3:4b" {
		t.Errorf("default model = %q", got.DefaultModel)
	}
	if got.WebSearch.MaxPages != 3 {
		t.Errorf("max pages = %d, want 3", got.WebSearch.MaxPages)
	}

	l.SaveDefaultModel("   ")
	if l.Settings().DefaultModel != "qwen3:4b" {
		t.Error("blank model should not overwrite the saved default")
	}
}

func TestPromptOverrides(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)

	if p := l.Prompt(PromptSearchPlanner); !strings.Contains(p, "{TRANSCRIPT}") {
		t.Errorf("default planner prompt missing placeholder: %q", p)
	}

	doc := `{"title_planner": "Custom: {FIRST_MESSAGE}", "unknown": "x"}`
	if err := os.WriteFile(filepath.Join(dir, "prompts.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.Prompt(PromptTitlePlanner); p != "Custom: {FIRST_MESSAGE}" {
		t.Errorf("override not applied: %q", p)
	}
	if p := l.Prompt(PromptWebFollowup); !strings.Contains(p, "solely") {
		t.Errorf("non-overridden prompt changed: %q", p)
	}
}
