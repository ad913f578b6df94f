package orch

import "github.com/sebastianszewc/localchat/internal/chat"

// Event is delivered to the EventSink as the pipeline progresses. The sink is
// invoked from the coordinator goroutine, one event at a time; consumers that
// render on another goroutine should forward events to it (the TUI sends them
// into its program loop).
type Event interface{ isEvent() }

// TurnStarted fires when a submitted turn is accepted; the surface should
// disable further submission until TurnFinished.
type TurnStarted struct {
	ChatIndex int
}

// MessageAppended fires for every message added to a chat history during a
// turn: the user message, the web-results context block, the assistant reply,
// and any injected system instruction.
type MessageAppended struct {
	ChatIndex int
	Message   chat.Message
}

// SearchQueryUsed reports the query the search stage ran, when show_query is
// enabled. Planned is false when the raw user text was used (planner off or
// fallback).
type SearchQueryUsed struct {
	Query   string
	Planned bool
}

// SearchResults carries the display form of the web-search stage: a markdown
// block of numbered links with snippets and excerpts. The verbose context
// lives in the history as a web_results message and is never shown directly.
type SearchResults struct {
	ChatIndex int
	Markdown  string
	Count     int
}

// TurnError reports a failed stage. The surface renders it inline as a
// system-style line; the history is left as-is (already-appended messages
// stay).
type TurnError struct {
	Stage   string
	Message string
}

// TitleChanged fires when title generation produced a usable title.
type TitleChanged struct {
	ChatIndex int
	Title     string
}

// TurnFinished fires exactly once per accepted turn, success or error, after
// the orchestrator has returned to idle and saved the collection.
type TurnFinished struct {
	ChatIndex int
}

func (TurnStarted) isEvent()     {}
func (MessageAppended) isEvent() {}
func (SearchQueryUsed) isEvent() {}
func (SearchResults) isEvent()   {}
func (TurnError) isEvent()       {}
func (TitleChanged) isEvent()    {}
func (TurnFinished) isEvent()    {}

// EventSink receives pipeline events.
type EventSink func(Event)
