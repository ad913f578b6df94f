// Package orch sequences a user turn through its pipeline stages: optional
// query planning, web search, page fetches, the model call, and optional
// title generation. One coordinator goroutine owns every mutation of the
// conversation store; each network call runs on its own worker goroutine
// that performs exactly one blocking call and hands one completion closure
// back to the coordinator.
package orch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/logging"
	"github.com/sebastianszewc/localchat/internal/planner"
	"github.com/sebastianszewc/localchat/internal/websearch"
)

// ModelGateway is the chat-completion call of the model service.
type ModelGateway interface {
	Chat(ctx context.Context, model string, history []chat.Message) (string, error)
}

// SearchGateway covers the search-index call and best-effort page fetches.
type SearchGateway interface {
	Search(ctx context.Context, query string, opts websearch.Options) ([]websearch.Result, error)
	FetchPageText(ctx context.Context, url string, maxChars int) (string, bool)
}

// QueryPlanner rewrites conversation context into a search query.
type QueryPlanner interface {
	BuildQuery(ctx context.Context, history []chat.Message, rawInput, model string) planner.Outcome
}

// TitleGenerator derives a short chat title.
type TitleGenerator interface {
	BuildTitle(ctx context.Context, history []chat.Message, model string) planner.Outcome
}

// SettingsSource yields a fresh settings snapshot and prompt templates.
// Snapshots are taken once per turn; later edits never affect a running turn.
type SettingsSource interface {
	Settings() config.Settings
	Prompt(key string) string
}

// pipelineState is the tagged turn state. Exactly one turn may be anywhere
// other than stateIdle; SubmitTurn while busy is a silent no-op.
type pipelineState int

const (
	stateIdle pipelineState = iota
	stateAwaitingSearch
	stateAwaitingModel
	stateAwaitingTitle
)

// turn carries everything pinned at submission time: the chat it belongs to
// and the settings snapshot for its whole duration.
type turn struct {
	chatIndex int
	rawInput  string
	model     string
	settings  config.Settings
	followup  string // strict-web-only instruction, captured with the snapshot

	query   string
	planned bool // query came from the planner, not the raw input
}

// Orchestrator drives the turn pipeline over a conversation store.
type Orchestrator struct {
	store   *chat.Store
	model   ModelGateway
	search  SearchGateway
	queries QueryPlanner
	titles  TitleGenerator
	cfg     SettingsSource
	sink    EventSink

	ctx         context.Context
	completions chan func()
	done        chan struct{}
	stopOnce    sync.Once

	mu    sync.Mutex
	state pipelineState
}

// New wires an orchestrator. The sink may be nil.
func New(store *chat.Store, model ModelGateway, search SearchGateway,
	queries QueryPlanner, titles TitleGenerator, cfg SettingsSource, sink EventSink) *Orchestrator {
	if sink == nil {
		sink = func(Event) {}
	}
	return &Orchestrator{
		store:       store,
		model:       model,
		search:      search,
		queries:     queries,
		titles:      titles,
		cfg:         cfg,
		sink:        sink,
		ctx:         context.Background(),
		completions: make(chan func(), 8),
		done:        make(chan struct{}),
	}
}

// Start launches the coordinator goroutine.
func (o *Orchestrator) Start() {
	go o.loop()
}

// Stop shuts the coordinator down. In-flight workers finish their single call
// and are then abandoned; they never touch the store themselves, so no state
// is corrupted.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() { close(o.done) })
}

// Busy reports whether a turn is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state != stateIdle
}

// SubmitTurn starts a turn for the active chat. It returns immediately;
// completion is observed through events. Returns false (and does nothing)
// when a turn is already running or the input is blank after trimming.
func (o *Orchestrator) SubmitTurn(rawInput string, searchRequested bool) bool {
	rawInput = strings.TrimSpace(rawInput)
	if rawInput == "" {
		return false
	}

	o.mu.Lock()
	if o.state != stateIdle {
		o.mu.Unlock()
		return false
	}
	if searchRequested {
		o.state = stateAwaitingSearch
	} else {
		o.state = stateAwaitingModel
	}
	o.mu.Unlock()

	o.enqueue(func() { o.beginTurn(rawInput, searchRequested) })
	return true
}

func (o *Orchestrator) loop() {
	for {
		select {
		case <-o.done:
			return
		case fn := <-o.completions:
			fn()
		}
	}
}

func (o *Orchestrator) enqueue(fn func()) {
	select {
	case o.completions <- fn:
	case <-o.done:
	}
}

// dispatch runs one blocking stage on its own worker goroutine. The worker
// computes a completion closure and hands it back to the coordinator; it
// never touches shared state directly.
func (o *Orchestrator) dispatch(stage func() func()) {
	go func() {
		if next := stage(); next != nil {
			o.enqueue(next)
		}
	}()
}

func (o *Orchestrator) setState(s pipelineState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// beginTurn runs on the coordinator: append the user message, snapshot
// settings, and dispatch the first stage.
func (o *Orchestrator) beginTurn(rawInput string, searchRequested bool) {
	active := o.store.Collection.Active()
	if active == nil {
		o.setState(stateIdle)
		return
	}

	t := &turn{
		chatIndex: o.store.Collection.CurrentIndex,
		rawInput:  rawInput,
		model:     active.Model,
		settings:  o.cfg.Settings(),
		followup:  o.cfg.Prompt(config.PromptWebFollowup),
	}
	o.sink(TurnStarted{ChatIndex: t.chatIndex})

	o.appendMessage(t, chat.Message{Role: chat.RoleUser, Content: rawInput})

	if !searchRequested {
		o.startModelStage(t)
		return
	}

	ws := t.settings.WebSearch
	if !ws.UsePlanner {
		o.onQueryReady(t, planner.Outcome{Text: rawInput, UsedFallback: true})
		return
	}

	// Planner sees only user/assistant turns, minus earlier web-results
	// blocks, so one search's context cannot compound into the next query.
	hist := plannerHistory(o.store.Collection.Chats[t.chatIndex].History)
	o.dispatch(func() func() {
		out := o.queries.BuildQuery(o.ctx, hist, t.rawInput, t.model)
		return func() { o.onQueryReady(t, out) }
	})
}

// onQueryReady dispatches the search stage.
func (o *Orchestrator) onQueryReady(t *turn, query planner.Outcome) {
	t.query = query.Text
	t.planned = !query.UsedFallback

	ws := t.settings.WebSearch
	opts := websearch.Options{
		MaxResults: ws.MaxResults,
		Language:   ws.Language,
		SafeSearch: ws.SafeSearch,
	}
	o.dispatch(func() func() {
		results, err := o.search.Search(o.ctx, t.query, opts)
		return func() { o.onSearchDone(t, results, err) }
	})
}

// onSearchDone validates the result list and dispatches the page fetches.
func (o *Orchestrator) onSearchDone(t *turn, results []websearch.Result, err error) {
	if err != nil {
		o.failTurn(t, "web search", err.Error())
		return
	}
	if len(results) == 0 {
		o.failTurn(t, "web search", "Web search returned no results.")
		return
	}

	maxPages := t.settings.WebSearch.MaxPages
	if maxPages <= 0 {
		maxPages = config.DefaultWebSearchSettings().MaxPages
	}
	if maxPages < len(results) {
		results = results[:maxPages]
	}
	maxChars := t.settings.WebSearch.MaxCharsPerPage

	// One worker fetches all selected pages; each fetch is best-effort and a
	// failure just leaves that result without page text.
	o.dispatch(func() func() {
		pages := make([]string, len(results))
		for i, r := range results {
			pages[i], _ = o.search.FetchPageText(o.ctx, r.URL, maxChars)
		}
		return func() { o.onPagesReady(t, results, pages) }
	})
}

// onPagesReady assembles the context blocks, appends them to history, and
// dispatches the model stage.
func (o *Orchestrator) onPagesReady(t *turn, results []websearch.Result, pages []string) {
	verbose, markdown := assembleContext(t, results, pages)

	if t.settings.WebSearch.ShowQuery {
		o.sink(SearchQueryUsed{Query: t.query, Planned: t.planned})
	}
	o.sink(SearchResults{ChatIndex: t.chatIndex, Markdown: markdown, Count: len(results)})

	o.appendMessage(t, chat.Message{
		Role:    chat.RoleAssistant,
		Content: verbose,
		Kind:    chat.KindWebResults,
	})
	if t.settings.WebSearch.StrictWebOnly {
		o.appendMessage(t, chat.Message{Role: chat.RoleSystem, Content: t.followup})
	}

	o.startModelStage(t)
}

// startModelStage dispatches the main model call with the full history.
func (o *Orchestrator) startModelStage(t *turn) {
	o.setState(stateAwaitingModel)

	hist := make([]chat.Message, len(o.store.Collection.Chats[t.chatIndex].History))
	copy(hist, o.store.Collection.Chats[t.chatIndex].History)

	o.dispatch(func() func() {
		reply, err := o.model.Chat(o.ctx, t.model, hist)
		return func() { o.onModelDone(t, reply, err) }
	})
}

func (o *Orchestrator) onModelDone(t *turn, reply string, err error) {
	if err != nil {
		o.failTurn(t, "model", err.Error())
		return
	}
	o.appendMessage(t, chat.Message{Role: chat.RoleAssistant, Content: reply})
	o.maybeStartTitle(t)
}

// maybeStartTitle dispatches title generation, or finishes the turn when the
// chat already has a real title, auto-titling is off, or there is nothing to
// derive a title from.
func (o *Orchestrator) maybeStartTitle(t *turn) {
	ch := &o.store.Collection.Chats[t.chatIndex]
	if !t.settings.AutoTitleEnabled() || !chat.HasDefaultTitle(ch.Title) || len(ch.History) == 0 {
		o.finishTurn(t)
		return
	}

	o.setState(stateAwaitingTitle)
	hist := make([]chat.Message, len(ch.History))
	copy(hist, ch.History)

	o.dispatch(func() func() {
		out := o.titles.BuildTitle(o.ctx, hist, t.model)
		return func() { o.onTitleDone(t, out) }
	})
}

// onTitleDone applies a non-empty title. Title failures were already replaced
// by the fallback inside the generator and are never user-facing errors.
func (o *Orchestrator) onTitleDone(t *turn, out planner.Outcome) {
	title := strings.TrimSpace(out.Text)
	if title != "" && t.chatIndex < len(o.store.Collection.Chats) {
		o.store.Collection.Chats[t.chatIndex].Title = title
		o.sink(TitleChanged{ChatIndex: t.chatIndex, Title: title})
	}
	o.finishTurn(t)
}

// failTurn surfaces a stage failure and ends the turn. Messages already
// appended this turn stay in the history.
func (o *Orchestrator) failTurn(t *turn, stage, msg string) {
	logging.Errorf("turn failed at %s: %s", stage, msg)
	o.sink(TurnError{Stage: stage, Message: msg})
	o.finishTurn(t)
}

// finishTurn persists the collection and returns to idle.
func (o *Orchestrator) finishTurn(t *turn) {
	o.store.Save()
	o.setState(stateIdle)
	o.sink(TurnFinished{ChatIndex: t.chatIndex})
}

func (o *Orchestrator) appendMessage(t *turn, m chat.Message) {
	ch := &o.store.Collection.Chats[t.chatIndex]
	ch.History = append(ch.History, m)
	o.sink(MessageAppended{ChatIndex: t.chatIndex, Message: m})
}

// plannerHistory keeps user/assistant turns and drops earlier web-results
// context blocks.
func plannerHistory(history []chat.Message) []chat.Message {
	out := make([]chat.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case chat.RoleUser:
			out = append(out, m)
		case chat.RoleAssistant:
			if m.Kind == chat.KindWebResults {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// assembleContext builds the verbose plain-text block fed to the model and
// the markdown block shown to the user.
func assembleContext(t *turn, results []websearch.Result, pages []string) (verbose, markdown string) {
	var blocks []string
	var mdParts []string

	for i, r := range results {
		n := i + 1

		block := []string{
			fmt.Sprintf("Result %d: %s", n, r.Title),
			"URL: " + r.URL,
		}
		if r.Snippet != "" {
			block = append(block, "Snippet: "+r.Snippet)
		}
		if pages[i] != "" {
			block = append(block, "Content:", pages[i])
		}
		blocks = append(blocks, strings.Join(block, "\n"))

		md := fmt.Sprintf("%d. [%s](%s)", n, r.Title, r.URL)
		if r.Snippet != "" {
			md += "\n" + r.Snippet
		}
		if pages[i] != "" {
			excerpt := pages[i]
			if len([]rune(excerpt)) > 400 {
				excerpt = string([]rune(excerpt)[:400])
			}
			md += "\n\n> " + strings.ReplaceAll(excerpt, "\n", " ")
		}
		mdParts = append(mdParts, md)
	}

	text := "No usable page content found."
	if len(blocks) > 0 {
		text = strings.Join(blocks, "\n\n\n")
	}
	verbose = fmt.Sprintf(
		"Web search results and page content.\nOriginal user message: %s\nSearch query used: %s\n\n%s",
		t.rawInput, t.query, text,
	)

	markdown = "_no results_"
	if len(mdParts) > 0 {
		markdown = strings.Join(mdParts, "\n\n---\n\n")
	}
	return verbose, markdown
}
