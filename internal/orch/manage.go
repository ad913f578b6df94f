package orch

import (
	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
)

// Chat management runs synchronously on the caller's goroutine, but only
// while no turn is in flight: the coordinator loop is quiescent at idle, so
// the single-flight guard doubles as the store's write guard. Every method
// is a silent no-op while busy, mirroring SubmitTurn.

// Collection exposes the store's collection for rendering. Callers must not
// touch it while a turn is in flight; during a turn the surface renders from
// events instead.
func (o *Orchestrator) Collection() *chat.Collection {
	return &o.store.Collection
}

// CreateChat adds a new default-titled chat and makes it active.
func (o *Orchestrator) CreateChat() (*chat.Chat, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != stateIdle {
		return nil, false
	}
	title := chat.DefaultTitle(len(o.store.Collection.Chats) + 1)
	ch := o.store.CreateChat(title, o.defaultModel(), o.cfg.Prompt(config.PromptSystem))
	o.store.Save()
	return ch, true
}

// DeleteChat removes the chat at index; the collection never becomes empty.
func (o *Orchestrator) DeleteChat(index int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != stateIdle {
		return false
	}
	o.store.DeleteChat(index, o.defaultModel(), o.cfg.Prompt(config.PromptSystem))
	o.store.Save()
	return true
}

// RenameChat retitles a chat. A renamed chat is no longer eligible for
// auto-titling.
func (o *Orchestrator) RenameChat(index int, title string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != stateIdle {
		return false
	}
	ok := o.store.RenameChat(index, title)
	if ok {
		o.store.Save()
	}
	return ok
}

// SelectChat switches the active chat.
func (o *Orchestrator) SelectChat(index int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != stateIdle || index < 0 || index >= len(o.store.Collection.Chats) {
		return false
	}
	o.store.Collection.CurrentIndex = index
	o.store.Save()
	return true
}

// SetActiveModel changes the model of the active chat.
func (o *Orchestrator) SetActiveModel(model string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != stateIdle || model == "" {
		return false
	}
	if active := o.store.Collection.Active(); active != nil {
		active.Model = model
		o.store.Save()
		return true
	}
	return false
}

func (o *Orchestrator) defaultModel() string {
	if m := o.cfg.Settings().DefaultModel; m != "" {
		return m
	}
	return config.FallbackModel
}
