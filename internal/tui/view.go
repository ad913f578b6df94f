package tui

import (
	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/orch"
)

// sessionView caches the store state the renderer needs. The coordinator owns
// the store while a turn is in flight, so the view loads from the store only
// at idle and applies orchestrator events in between; render paths never read
// the collection directly.
type sessionView struct {
	titles  []string
	current int
	model   string
}

// loadFrom snapshots the collection. Only call while the orchestrator is idle.
func (v *sessionView) loadFrom(col *chat.Collection) {
	v.titles = v.titles[:0]
	for _, ch := range col.Chats {
		v.titles = append(v.titles, ch.Title)
	}
	v.current = col.CurrentIndex
	v.model = ""
	if active := col.Active(); active != nil {
		v.model = active.Model
	}
}

// apply folds a mid-turn event into the cached view.
func (v *sessionView) apply(e orch.Event) {
	if t, ok := e.(orch.TitleChanged); ok {
		if t.ChatIndex >= 0 && t.ChatIndex < len(v.titles) {
			v.titles[t.ChatIndex] = t.Title
		}
	}
}

func (v *sessionView) title() string {
	if v.current >= 0 && v.current < len(v.titles) {
		return v.titles[v.current]
	}
	return ""
}

func (v *sessionView) modelName() string {
	if v.model != "" {
		return v.model
	}
	return config.FallbackModel
}
