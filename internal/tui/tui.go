// Package tui is the interactive chat surface: a sidebar of chats, the active
// transcript, and an input line with a web-search toggle. All conversation
// state lives in the orchestrator; the TUI renders from its events while a
// turn is in flight and re-reads the store once it returns to idle.
package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/orch"
)

const sidebarWidth = 26

// eventMsg wraps an orchestrator event for the program loop.
type eventMsg struct{ event orch.Event }

// settingsMsg carries a fresh settings snapshot from the config watcher.
type settingsMsg struct{ settings config.Settings }

// Forwarder bridges the orchestrator's event sink to a running program. The
// sink is wired before the program exists, so delivery starts only after
// Attach.
type Forwarder struct {
	mu sync.Mutex
	p  *tea.Program
}

// Send implements orch.EventSink.
func (f *Forwarder) Send(e orch.Event) {
	f.mu.Lock()
	p := f.p
	f.mu.Unlock()
	if p != nil {
		p.Send(eventMsg{event: e})
	}
}

// Attach points the forwarder at the running program.
func (f *Forwarder) Attach(p *tea.Program) {
	f.mu.Lock()
	f.p = p
	f.mu.Unlock()
}

// SendSettings forwards a settings change into the program loop.
func (f *Forwarder) SendSettings(s config.Settings) {
	f.mu.Lock()
	p := f.p
	f.mu.Unlock()
	if p != nil {
		p.Send(settingsMsg{settings: s})
	}
}

type inputMode int

const (
	modeCompose inputMode = iota
	modeRename
)

// Model is the bubbletea model for the chat surface.
type Model struct {
	orch     *orch.Orchestrator
	models   []string
	settings config.Settings

	width  int
	height int
	ready  bool

	busy     bool
	searchOn bool
	mode     inputMode
	status   string

	// view caches chat titles, the active index, and the model name; the
	// store itself is read only while the orchestrator is idle.
	view sessionView

	// transcript lines of the active chat, already formatted
	lines []string

	input    textinput.Model
	timeline viewport.Model
	sidebar  viewport.Model
	spinner  spinner.Model
	theme    theme
}

// NewModel builds the initial model. models is the discovered model list used
// by the model-cycling key.
func NewModel(o *orch.Orchestrator, models []string, settings config.Settings) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Placeholder = "Message (ctrl+w toggles web search)"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true
	sidebar := viewport.New(0, 0)

	m := Model{
		orch:     o,
		models:   models,
		settings: settings,
		searchOn: false,
		status:   "ready",
		input:    input,
		timeline: timeline,
		sidebar:  sidebar,
		spinner:  sp,
		theme:    newTheme(),
	}
	m.syncFromStore()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.refreshViews()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settingsMsg:
		m.settings = msg.settings
		if !m.settings.WebSearch.Enabled {
			m.searchOn = false
		}
		return m, nil

	case eventMsg:
		return m.handleEvent(msg.event)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.mode == modeRename {
			m.mode = modeCompose
			m.input.SetValue("")
			m.input.Placeholder = "Message (ctrl+w toggles web search)"
			m.status = "rename cancelled"
			return m, nil
		}
		return m, tea.Quit

	case "enter":
		return m.handleSubmit()

	case "ctrl+w":
		if m.settings.WebSearch.Enabled {
			m.searchOn = !m.searchOn
		} else {
			m.status = "web search is disabled in settings"
		}
		return m, nil

	case "ctrl+n":
		if _, ok := m.orch.CreateChat(); ok {
			m.syncFromStore()
			m.refreshViews()
		}
		return m, nil

	case "ctrl+d":
		if m.orch.DeleteChat(m.view.current) {
			m.syncFromStore()
			m.refreshViews()
		}
		return m, nil

	case "ctrl+r":
		if m.busy {
			return m, nil
		}
		m.mode = modeRename
		m.input.SetValue(m.view.title())
		m.input.Placeholder = "New title (esc cancels)"
		return m, nil

	case "ctrl+k", "ctrl+p":
		m.selectChat(m.view.current - 1)
		return m, nil

	case "ctrl+j":
		m.selectChat(m.view.current + 1)
		return m, nil

	case "ctrl+o":
		m.cycleModel()
		return m, nil

	case "pgup":
		m.timeline.ScrollUp(m.timeline.Height / 2)
		return m, nil

	case "pgdown":
		m.timeline.ScrollDown(m.timeline.Height / 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if m.mode == modeRename {
		m.mode = modeCompose
		m.input.SetValue("")
		m.input.Placeholder = "Message (ctrl+w toggles web search)"
		if text != "" && m.orch.RenameChat(m.view.current, text) {
			m.status = "renamed"
			m.syncFromStore()
			m.refreshViews()
		}
		return m, nil
	}

	if text == "" {
		return m, nil
	}
	if !m.orch.SubmitTurn(text, m.searchOn) {
		m.status = "a turn is already running"
		return m, nil
	}
	m.input.SetValue("")
	return m, nil
}

func (m Model) handleEvent(e orch.Event) (tea.Model, tea.Cmd) {
	switch e := e.(type) {
	case orch.TurnStarted:
		m.busy = true
		m.status = "thinking"

	case orch.MessageAppended:
		if e.ChatIndex == m.view.current {
			m.lines = append(m.lines, FormatMessage(e.Message, m.theme)...)
			m.refreshTimeline()
			m.timeline.GotoBottom()
		}

	case orch.SearchQueryUsed:
		label := "[web search query] "
		if !e.Planned {
			label = "[web search query, unplanned] "
		}
		m.lines = append(m.lines, m.theme.faint.Render(label+e.Query))
		m.refreshTimeline()

	case orch.SearchResults:
		m.status = fmt.Sprintf("searching: %d sources", e.Count)

	case orch.TurnError:
		m.lines = append(m.lines, m.theme.errText.Render(
			fmt.Sprintf("[%s error] %s", e.Stage, e.Message)))
		m.refreshTimeline()
		m.timeline.GotoBottom()

	case orch.TitleChanged:
		// The turn is still in flight; fold the event into the cached view
		// instead of reading the store.
		m.view.apply(e)
		m.refreshSidebar()

	case orch.TurnFinished:
		m.busy = false
		m.status = "ready"
		m.syncFromStore()
		m.refreshViews()
		m.timeline.GotoBottom()
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.renderHeader()
	body := joinHorizontal(
		m.theme.panel.Width(sidebarWidth).Render(m.sidebar.View()),
		m.theme.panel.Width(m.width-sidebarWidth-4).Render(m.timeline.View()),
	)
	footer := m.renderFooter()

	return strings.Join([]string{header, body, m.theme.inputPanel.Width(m.width - 2).Render(m.input.View()), footer}, "\n")
}

func (m Model) renderHeader() string {
	title := m.view.title()
	model := m.view.modelName()
	search := "off"
	if m.searchOn {
		search = "on"
	}
	left := m.theme.title.Render(title)
	right := m.theme.faint.Render(fmt.Sprintf("model %s · web %s", model, search))
	if m.busy {
		right = m.spinner.View() + " " + right
	}
	return m.theme.header.Width(m.width - 2).Render(left + "  " + right)
}

func (m Model) renderFooter() string {
	help := "enter send · ctrl+w web · ctrl+n new · ctrl+d delete · ctrl+r rename · ctrl+j/k switch · ctrl+o model · ctrl+c quit"
	line := m.theme.faint.Render(help)
	if m.status != "" {
		line = m.theme.status.Render(m.status) + "  " + line
	}
	return m.theme.footer.Width(m.width - 2).Render(line)
}

func (m *Model) layout() {
	bodyHeight := m.height - 7
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.sidebar.Width = sidebarWidth
	m.sidebar.Height = bodyHeight
	m.timeline.Width = m.width - sidebarWidth - 4
	m.timeline.Height = bodyHeight
	m.input.Width = m.width - 6
}

// syncFromStore re-derives the cached view and transcript lines from the
// store. Only safe at idle; during a turn both grow from events instead.
func (m *Model) syncFromStore() {
	col := m.orch.Collection()
	m.view.loadFrom(col)

	active := col.Active()
	if active == nil {
		m.lines = nil
		return
	}
	m.lines = m.lines[:0]
	for _, msg := range active.History {
		m.lines = append(m.lines, FormatMessage(msg, m.theme)...)
	}
}

func (m *Model) refreshViews() {
	m.refreshSidebar()
	m.refreshTimeline()
}

func (m *Model) refreshTimeline() {
	m.timeline.SetContent(strings.Join(m.lines, "\n"))
}

func (m *Model) refreshSidebar() {
	var b strings.Builder
	for i, title := range m.view.titles {
		line := truncateLine(title, sidebarWidth-4)
		if i == m.view.current {
			b.WriteString(m.theme.selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	m.sidebar.SetContent(b.String())
}

func (m *Model) selectChat(index int) {
	if m.orch.SelectChat(index) {
		m.syncFromStore()
		m.refreshViews()
		m.timeline.GotoBottom()
	}
}

func (m *Model) cycleModel() {
	if len(m.models) == 0 {
		return
	}
	current := m.view.modelName()
	next := m.models[0]
	for i, name := range m.models {
		if name == current {
			next = m.models[(i+1)%len(m.models)]
			break
		}
	}
	if m.orch.SetActiveModel(next) {
		m.view.model = next
		m.status = "model: " + next
	}
}

// FormatMessage renders one history message as transcript lines. System
// messages are hidden; web-results blocks collapse to their source links.
func FormatMessage(msg chat.Message, th theme) []string {
	switch {
	case msg.Role == chat.RoleSystem:
		return nil
	case msg.Kind == chat.KindWebResults:
		return splitLines(th.faint.Render(chat.ShrinkWebResults(msg.Content)))
	case msg.Kind == chat.KindWebLinks:
		return splitLines(th.faint.Render(msg.Content))
	case msg.Role == chat.RoleUser:
		return append([]string{th.userLabel.Render("You")}, splitLines(msg.Content)...)
	default:
		return append([]string{th.botLabel.Render("Assistant")}, splitLines(msg.Content)...)
	}
}

func splitLines(s string) []string {
	out := strings.Split(s, "\n")
	return append(out, "")
}

func truncateLine(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
