// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/reps/internal/config"
	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// defaultRefresh is the redraw interval used when none is configured.
const defaultRefresh = 50 * time.Millisecond

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is sent on every redraw tick.
type tickMsg time.Time

// stateMsg wraps a snapshot fetched asynchronously.
type stateMsg struct {
	state domain.Snapshot
}

// Model represents the TUI state. It renders snapshots and forwards
// key presses to the controller; it never mutates timer state itself.
type Model struct {
	state   domain.Snapshot
	input   textarea.Model
	help    help.Model
	keys    keyMap
	theme   config.ThemeConfig
	refresh time.Duration

	width  int
	height int

	editing   bool
	notified  bool
	gitLabel  string
	status    string
	lastError error

	fetchState      func() domain.Snapshot
	commandCallback func(ports.TimerCommand) error
	processCallback func(string) error
	exportCallback  func() (string, error)
	onRunComplete   func(domain.Snapshot)
}

// NewModel creates a new TUI model showing initialState. The task editor
// starts focused when no tasks have been loaded yet.
func NewModel(initialState domain.Snapshot, theme *config.ThemeConfig) Model {
	ta := textarea.New()
	ta.Placeholder = "One task per line. Paste a list or type it, then ctrl+s."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.SetWidth(50)
	if initialState.HasTasks() {
		ta.SetValue(strings.Join(initialState.Tasks, "\n"))
	}

	m := Model{
		state:   initialState,
		input:   ta,
		help:    help.New(),
		keys:    defaultKeyMap(),
		theme:   resolveTheme(theme),
		refresh: defaultRefresh,
		// A run that is already complete must not re-notify.
		notified: initialState.Complete,
	}
	if !initialState.HasTasks() {
		m.editing = true
		m.input.Focus()
	}
	m.syncKeys()
	return m
}

// SetFetchState sets the function used to read the controller on each redraw.
func (m *Model) SetFetchState(fn func() domain.Snapshot) { m.fetchState = fn }

// SetCommandCallback sets the function that receives primary and secondary presses.
func (m *Model) SetCommandCallback(fn func(ports.TimerCommand) error) { m.commandCallback = fn }

// SetProcessCallback sets the function that replaces the task list.
func (m *Model) SetProcessCallback(fn func(string) error) { m.processCallback = fn }

// SetExportCallback sets the function that writes the lap report and
// returns where it went.
func (m *Model) SetExportCallback(fn func() (string, error)) { m.exportCallback = fn }

// SetRunCompleteCallback sets the function fired once when the last task is lapped.
func (m *Model) SetRunCompleteCallback(fn func(domain.Snapshot)) { m.onRunComplete = fn }

// SetRefreshInterval sets the redraw interval.
func (m *Model) SetRefreshInterval(d time.Duration) {
	if d > 0 {
		m.refresh = d
	}
}

// SetGitLabel sets the branch line shown under the title.
func (m *Model) SetGitLabel(label string) { m.gitLabel = label }

// State returns the last snapshot the model rendered.
func (m Model) State() domain.Snapshot { return m.state }

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.editing {
		cmds = append(cmds, textarea.Blink)
	}
	return tea.Batch(cmds...)
}

// fetchStateCmd returns a tea.Cmd that fetches state asynchronously.
func fetchStateCmd(fetch func() domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: fetch()}
	}
}

// tickCmd creates a command that sends a tick message.
func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if msg.Paste {
			return m.handlePaste(msg)
		}
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.updateTimer(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 8; w > 20 {
			m.input.SetWidth(min(w, 72))
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.fetchState != nil {
			cmds = append(cmds, fetchStateCmd(m.fetchState))
		}
		return m, tea.Batch(cmds...)

	case stateMsg:
		m.applyState(msg.state)
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Primary):
		m.send(ports.CmdPrimary)
	case key.Matches(msg, m.keys.Secondary):
		m.send(ports.CmdSecondary)
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.lastError = nil
		m.syncKeys()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Process):
		m.process()
	case key.Matches(msg, m.keys.Export):
		m.export()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Done):
		m.editing = false
		m.input.Blur()
		m.syncKeys()
		return m, nil
	case key.Matches(msg, m.keys.Process):
		m.process()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncKeys()
	return m, cmd
}

// handlePaste drops pasted text into the editor and processes it
// straight away.
func (m Model) handlePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := string(msg.Runes)
	if m.editing {
		m.input.InsertString(text)
		m.syncKeys()
		m.process()
		return m, nil
	}

	// The editor keeps its contents unless the pasted list was accepted.
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if m.load(text) {
		m.input.SetValue(text)
		m.input.Blur()
		m.syncKeys()
	}
	return m, nil
}

// process hands the editor contents to the controller. It is a no-op
// while the editor is empty.
func (m *Model) process() {
	if !m.keys.Process.Enabled() {
		return
	}
	m.load(m.input.Value())
}

// load replaces the controller's task list with text and reports whether
// it was accepted.
func (m *Model) load(text string) bool {
	if m.processCallback == nil {
		return false
	}
	if err := m.processCallback(text); err != nil {
		m.lastError = err
		return false
	}
	m.lastError = nil
	m.refreshNow()
	m.status = fmt.Sprintf("%d tasks loaded", len(m.state.Tasks))
	m.editing = false
	m.input.Blur()
	m.syncKeys()
	return true
}

func (m *Model) export() {
	if m.exportCallback == nil {
		return
	}
	path, err := m.exportCallback()
	if err != nil {
		m.lastError = err
		return
	}
	m.lastError = nil
	m.status = "Exported to " + path
}

func (m *Model) send(cmd ports.TimerCommand) {
	if m.commandCallback == nil {
		return
	}
	if err := m.commandCallback(cmd); err != nil {
		m.lastError = err
		return
	}
	m.lastError = nil
	m.status = ""
	m.refreshNow()
}

// refreshNow re-reads the controller so a key press is reflected in the
// same frame instead of on the next tick.
func (m *Model) refreshNow() {
	if m.fetchState != nil {
		m.applyState(m.fetchState())
	}
}

// applyState installs next and fires the completion callback on the
// transition into the completed state.
func (m *Model) applyState(next domain.Snapshot) {
	if next.Complete && !m.notified {
		m.notified = true
		if m.onRunComplete != nil {
			m.onRunComplete(next)
		}
	}
	if !next.Complete {
		m.notified = false
	}
	m.state = next
	m.syncKeys()
}

// syncKeys updates binding captions and enablement from the current state.
func (m *Model) syncKeys() {
	m.keys.Primary.SetHelp("space", strings.ToLower(m.state.PrimaryLabel()))
	m.keys.Secondary.SetHelp("enter", strings.ToLower(m.state.SecondaryLabel()))
	m.keys.Process.SetEnabled(strings.TrimSpace(m.input.Value()) != "")
	m.keys.Export.SetEnabled(len(m.state.Laps) > 0)
}
