package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/reps/internal/config"
	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
	"github.com/xvierd/reps/internal/services"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func paste(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

// press feeds msgs through Update and returns the resulting model.
func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	var tm tea.Model = m
	for _, msg := range msgs {
		tm, _ = tm.Update(msg)
	}
	out, ok := tm.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", tm)
	}
	return out
}

// wiredModel returns a model driven by a real controller without a tick source.
func wiredModel(t *testing.T, tasks string) (Model, *services.TaskTimerController) {
	t.Helper()
	c := services.NewTaskTimerController(nil, nil)
	if tasks != "" {
		if err := c.ParseTasks(tasks); err != nil {
			t.Fatalf("ParseTasks() error = %v", err)
		}
	}
	m := NewModel(c.Snapshot(), nil)
	m.SetFetchState(c.Snapshot)
	m.SetCommandCallback(c.Apply)
	m.SetProcessCallback(c.ParseTasks)
	m.width, m.height = 100, 50
	return m, c
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewModel_EditorFocusedWithoutTasks(t *testing.T) {
	m, _ := wiredModel(t, "")
	if !m.editing {
		t.Error("editor should start focused when no tasks are loaded")
	}

	m, _ = wiredModel(t, "a\nb")
	if m.editing {
		t.Error("editor should start blurred when tasks are preloaded")
	}
	if got := m.input.Value(); got != "a\nb" {
		t.Errorf("editor value = %q, want preloaded tasks", got)
	}
}

func TestResolveTheme_FillsEmptyFields(t *testing.T) {
	theme := resolveTheme(&config.ThemeConfig{ColorRunning: "#000000"})
	if theme.ColorRunning != "#000000" {
		t.Errorf("ColorRunning = %q, want override kept", theme.ColorRunning)
	}
	if theme.ColorLap != config.DefaultThemeConfig().ColorLap {
		t.Errorf("ColorLap = %q, want default", theme.ColorLap)
	}
	if resolveTheme(nil) != config.DefaultThemeConfig() {
		t.Error("nil theme should resolve to defaults")
	}
}

// ---------------------------------------------------------------------------
// Task editor
// ---------------------------------------------------------------------------

func TestEditor_ProcessDisabledWhileEmpty(t *testing.T) {
	m, c := wiredModel(t, "")
	called := false
	m.SetProcessCallback(func(string) error {
		called = true
		return nil
	})

	m = press(t, m, keyMsg("ctrl+s"))
	if called {
		t.Error("process must not run with an empty editor")
	}
	if len(c.Snapshot().Tasks) != 0 {
		t.Error("tasks should still be empty")
	}
}

func TestEditor_TypeAndProcess(t *testing.T) {
	m, c := wiredModel(t, "")

	m = press(t, m, keyMsg("a"), keyMsg("enter"), keyMsg("b"), keyMsg("ctrl+s"))

	if got := c.Snapshot().Tasks; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Tasks = %v, want [a b]", got)
	}
	if m.editing {
		t.Error("processing should return focus to the timer")
	}
	if m.state.Label != "a" {
		t.Errorf("Label = %q, want a", m.state.Label)
	}
	if m.status != "2 tasks loaded" {
		t.Errorf("status = %q", m.status)
	}
}

func TestEditor_PasteProcessesImmediately(t *testing.T) {
	m, c := wiredModel(t, "")

	m = press(t, m, paste("  write\n\nreview\r\nship  "))

	want := []string{"write", "review", "ship"}
	got := c.Snapshot().Tasks
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Tasks = %v, want %v", got, want)
	}
	if m.editing {
		t.Error("paste should leave the editor")
	}
}

func TestEditor_PasteWhileTimerFocusedReplacesText(t *testing.T) {
	m, c := wiredModel(t, "old")

	m = press(t, m, paste("new1\nnew2"))

	if got := c.Snapshot().Tasks; len(got) != 2 || got[0] != "new1" {
		t.Errorf("Tasks = %v, want [new1 new2]", got)
	}
	if m.input.Value() != "new1\nnew2" {
		t.Errorf("editor = %q", m.input.Value())
	}
}

func TestEditor_RejectedPasteKeepsEditor(t *testing.T) {
	m, c := wiredModel(t, "")
	m = press(t, m, paste("old"))
	m = press(t, m, keyMsg("space"))
	if !c.Snapshot().Running {
		t.Fatal("timer should be running")
	}

	m = press(t, m, paste("new1\nnew2"))

	if !errors.Is(m.lastError, domain.ErrTimerRunning) {
		t.Errorf("lastError = %v, want ErrTimerRunning", m.lastError)
	}
	if got := c.Snapshot().Tasks; len(got) != 1 || got[0] != "old" {
		t.Errorf("Tasks = %v, want [old]", got)
	}
	if m.input.Value() != "old" {
		t.Errorf("editor = %q, want the loaded list", m.input.Value())
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("view should show the rejection")
	}
}

func TestEditor_EscAndEditToggleFocus(t *testing.T) {
	m, _ := wiredModel(t, "a")

	m = press(t, m, keyMsg("e"))
	if !m.editing {
		t.Fatal("e should focus the editor")
	}
	m = press(t, m, keyMsg("q"))
	if !strings.HasSuffix(m.input.Value(), "q") {
		t.Error("q inside the editor should be typed, not quit")
	}
	m = press(t, m, keyMsg("esc"))
	if m.editing {
		t.Error("esc should leave the editor")
	}
}

func TestEditor_ProcessWhileRunningShowsError(t *testing.T) {
	m, c := wiredModel(t, "a\nb")
	m = press(t, m, keyMsg("space"), keyMsg("e"), keyMsg("x"), keyMsg("ctrl+s"))

	if !errors.Is(m.lastError, domain.ErrTimerRunning) {
		t.Errorf("lastError = %v, want ErrTimerRunning", m.lastError)
	}
	if got := c.Snapshot().Tasks; len(got) != 2 {
		t.Errorf("tasks replaced while running: %v", got)
	}
	if !strings.Contains(m.View(), "timer is running") {
		t.Error("error should be rendered")
	}
}

// ---------------------------------------------------------------------------
// Timer keys
// ---------------------------------------------------------------------------

func TestTimerKeys_PrimaryAndSecondary(t *testing.T) {
	m, c := wiredModel(t, "X\nY")

	m = press(t, m, keyMsg("space"))
	if !m.state.Running {
		t.Fatal("space should start the timer")
	}
	if m.state.PrimaryLabel() != "Stop" || m.state.SecondaryLabel() != "Lap" {
		t.Errorf("labels = %s/%s, want Stop/Lap", m.state.PrimaryLabel(), m.state.SecondaryLabel())
	}

	c.Tick(time.Second)
	m = press(t, m, keyMsg("enter"))
	if len(m.state.Laps) != 1 || m.state.CurrentTaskIndex != 1 {
		t.Errorf("after lap: laps=%d index=%d", len(m.state.Laps), m.state.CurrentTaskIndex)
	}

	m = press(t, m, keyMsg("s"))
	if m.state.Running {
		t.Error("s should stop the timer")
	}

	m = press(t, m, keyMsg("l"))
	if len(m.state.Laps) != 0 || m.state.Elapsed != 0 {
		t.Error("secondary while stopped should reset")
	}
}

func TestTimerKeys_CommandsSent(t *testing.T) {
	m, _ := wiredModel(t, "a")
	var cmds []ports.TimerCommand
	m.SetCommandCallback(func(cmd ports.TimerCommand) error {
		cmds = append(cmds, cmd)
		return nil
	})

	press(t, m, keyMsg("space"), keyMsg("enter"), keyMsg("z"))

	if len(cmds) != 2 || cmds[0] != ports.CmdPrimary || cmds[1] != ports.CmdSecondary {
		t.Errorf("commands = %v, want [primary secondary]", cmds)
	}
}

func TestTimerKeys_Quit(t *testing.T) {
	m, _ := wiredModel(t, "a")

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	m.editing = true
	_, cmd = m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should quit even while editing")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestTimerKeys_Export(t *testing.T) {
	m, c := wiredModel(t, "a\nb")
	calls := 0
	m.SetExportCallback(func() (string, error) {
		calls++
		return "/tmp/run.md", nil
	})

	m = press(t, m, keyMsg("x"))
	if calls != 0 {
		t.Error("export should be disabled without laps")
	}

	m = press(t, m, keyMsg("space"))
	c.Tick(time.Second)
	m = press(t, m, keyMsg("enter"), keyMsg("x"))
	if calls != 1 {
		t.Fatalf("export calls = %d, want 1", calls)
	}
	if m.status != "Exported to /tmp/run.md" {
		t.Errorf("status = %q", m.status)
	}
}

// ---------------------------------------------------------------------------
// Refresh and completion
// ---------------------------------------------------------------------------

func TestRefresh_TickFetchesState(t *testing.T) {
	m, c := wiredModel(t, "a")
	m = press(t, m, keyMsg("space"))
	c.Tick(1500 * time.Millisecond)

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule work")
	}

	m = press(t, m, stateMsg{state: c.Snapshot()})
	if m.state.Formatted != "00:01.50" {
		t.Errorf("Formatted = %q, want 00:01.50", m.state.Formatted)
	}
}

func TestCompletion_FiresOnce(t *testing.T) {
	m, c := wiredModel(t, "only")
	fired := 0
	m.SetRunCompleteCallback(func(s domain.Snapshot) {
		fired++
		if !s.Complete {
			t.Error("callback snapshot should be complete")
		}
	})

	m = press(t, m, keyMsg("space"), keyMsg("enter"))
	m = press(t, m, stateMsg{state: c.Snapshot()}, stateMsg{state: c.Snapshot()})
	if fired != 1 {
		t.Fatalf("completion fired %d times, want 1", fired)
	}
	if m.state.Label != domain.CompletionLabel {
		t.Errorf("Label = %q", m.state.Label)
	}

	// Reset then run again: a second completion fires again.
	m = press(t, m, keyMsg("enter"), keyMsg("space"), keyMsg("enter"))
	if fired != 2 {
		t.Errorf("completion fired %d times after rerun, want 2", fired)
	}
}

func TestCompletion_BareLapDoesNotFire(t *testing.T) {
	m, _ := wiredModel(t, "")
	m.editing = false
	fired := false
	m.SetRunCompleteCallback(func(domain.Snapshot) { fired = true })

	m = press(t, m, keyMsg("space"), keyMsg("enter"))
	if fired {
		t.Error("a bare lap with no tasks is not a completed run")
	}
	if m.state.Running {
		t.Error("a bare lap should stop the timer")
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func TestView_LoadingBeforeSize(t *testing.T) {
	m, _ := wiredModel(t, "a")
	m.width = 0
	if m.View() != "Loading..." {
		t.Error("view should wait for the window size")
	}
}

func TestView_LapListAndLabels(t *testing.T) {
	m, c := wiredModel(t, "write\nreview\nship")
	m = press(t, m, keyMsg("space"))
	c.Tick(time.Second)
	m = press(t, m, keyMsg("enter"))
	c.Tick(time.Second)
	m = press(t, m, keyMsg("enter"))

	view := m.View()
	for _, want := range []string{
		"Task 3/3: ship",
		"[space] Stop",
		"[enter] Lap",
		"Task 2: 00:02.00",
		"Task 1: 00:01.00",
		"review",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Index(view, "Task 2:") > strings.Index(view, "Task 1:") {
		t.Error("most recent lap should be listed first")
	}
}

func TestView_CompletionAndStoppedLabels(t *testing.T) {
	m, _ := wiredModel(t, "a")
	m = press(t, m, keyMsg("space"), keyMsg("enter"))

	view := m.View()
	if !strings.Contains(view, domain.CompletionLabel) {
		t.Error("view should show the completion label")
	}
	if !strings.Contains(view, "[space] Start") || !strings.Contains(view, "[enter] Reset") {
		t.Error("stopped controls should read Start and Reset")
	}
}

func TestView_LapListTruncates(t *testing.T) {
	m, c := wiredModel(t, "")
	m.editing = false
	lines := make([]string, maxVisibleLaps+3)
	for i := range lines {
		lines[i] = "t"
	}
	_ = c.ParseTasks(strings.Join(lines, "\n"))
	m = press(t, m, keyMsg("space"))
	for i := 0; i < len(lines)-1; i++ {
		m = press(t, m, keyMsg("enter"))
	}

	if !strings.Contains(m.View(), "… 2 more") {
		t.Error("lap list should be truncated")
	}
}

func TestBigTimeWidth(t *testing.T) {
	if got := bigTimeWidth("01:05.25"); got != 27 {
		t.Errorf("bigTimeWidth = %d, want 27", got)
	}
	if got := bigTimeWidth("x"); got != 0 {
		t.Errorf("unknown runes should take no width, got %d", got)
	}
}

func TestRenderBigTime_NarrowFallsBack(t *testing.T) {
	out := renderBigTime("01:05.25", "#FFFFFF", 20)
	if !strings.Contains(out, "01:05.25") {
		t.Errorf("narrow render = %q", out)
	}
	wide := renderBigTime("01:05.25", "#FFFFFF", 100)
	if strings.Count(wide, "\n") != glyphRows-1 {
		t.Errorf("wide render should have %d lines, got %d", glyphRows, strings.Count(wide, "\n")+1)
	}
	if strings.Contains(wide, "01:05.25") {
		t.Error("wide render should use segment digits")
	}
}
