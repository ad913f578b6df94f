package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sebastianszewc/localchat/internal/logging"
)

// Store owns the chat collection and persists it as a single JSON document.
// Persistence is best-effort: read, parse, and write failures are logged and
// treated as "no saved state" rather than surfaced. All mutation must come
// from the coordinator goroutine, so the store itself carries no lock.
type Store struct {
	path string

	Collection Collection
}

// NewStore creates a store that persists to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted collection. It reports whether usable saved state
// was found; on false the caller should bootstrap a first chat.
//
// Messages still carrying the web_results kind come from a save format that
// predates compaction and are dropped outright, not migrated. That loses the
// old context blocks, but they were never meant to survive a restart.
func (s *Store) Load() bool {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Errorf("loading chats: %v", err)
		}
		return false
	}

	var col Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		logging.Errorf("parsing %s: %v", filepath.Base(s.path), err)
		return false
	}
	if len(col.Chats) == 0 {
		return false
	}

	for i := range col.Chats {
		kept := col.Chats[i].History[:0]
		for _, m := range col.Chats[i].History {
			if m.Kind == KindWebResults {
				continue
			}
			kept = append(kept, m)
		}
		col.Chats[i].History = kept
	}

	col.ClampIndex()
	s.Collection = col
	return true
}

// Save writes the collection to disk with the web-results compaction applied.
// The write goes through a temp file and rename so a crash mid-write cannot
// truncate the previous save.
func (s *Store) Save() {
	out := Collection{
		Chats:        make([]Chat, len(s.Collection.Chats)),
		CurrentIndex: s.Collection.CurrentIndex,
	}
	for i, ch := range s.Collection.Chats {
		ch.History = compactHistory(ch.History)
		out.Chats[i] = ch
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logging.Errorf("encoding chats: %v", err)
		return
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.Errorf("creating data dir: %v", err)
		return
	}
	tmp, err := os.CreateTemp(dir, ".chats-*.json")
	if err != nil {
		logging.Errorf("saving chats: %v", err)
		return
	}
	name := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(name)
		logging.Errorf("saving chats: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		logging.Errorf("saving chats: %v", err)
		return
	}
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		logging.Errorf("saving chats: %v", err)
	}
}

// CreateChat appends a new chat, makes it active, and returns it.
func (s *Store) CreateChat(title, model, systemPrompt string) *Chat {
	s.Collection.Chats = append(s.Collection.Chats, New(title, model, systemPrompt))
	s.Collection.CurrentIndex = len(s.Collection.Chats) - 1
	return &s.Collection.Chats[s.Collection.CurrentIndex]
}

// DeleteChat removes the chat at index. The collection is never left empty:
// deleting the last chat immediately synthesizes a fresh default one.
func (s *Store) DeleteChat(index int, defaultModel, systemPrompt string) {
	if index < 0 || index >= len(s.Collection.Chats) {
		return
	}
	s.Collection.Chats = append(s.Collection.Chats[:index], s.Collection.Chats[index+1:]...)

	if len(s.Collection.Chats) == 0 {
		s.Collection.Chats = []Chat{New(DefaultTitle(1), defaultModel, systemPrompt)}
		s.Collection.CurrentIndex = 0
		return
	}
	if index < len(s.Collection.Chats) {
		s.Collection.CurrentIndex = index
	} else {
		s.Collection.CurrentIndex = len(s.Collection.Chats) - 1
	}
}

// RenameChat sets a new title; blank titles are rejected.
func (s *Store) RenameChat(index int, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || index < 0 || index >= len(s.Collection.Chats) {
		return false
	}
	s.Collection.Chats[index].Title = title
	return true
}
