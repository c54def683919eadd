package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/reps/internal/config"
	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// Options configures a TUI session.
type Options struct {
	Theme    *config.ThemeConfig
	Refresh  time.Duration
	GitLabel string
	// Export writes the current laps and returns the file path. Optional.
	Export func() (string, error)
	// OnRunComplete fires once each time the last task is lapped. Optional.
	OnRunComplete func(domain.Snapshot)
	// AltScreen runs the program in the alternate screen buffer.
	AltScreen bool
}

// Timer runs the Bubbletea program on top of a task timer.
type Timer struct {
	timer ports.TaskTimer
	opts  Options
	wg    sync.WaitGroup
}

// NewTimer creates a TUI bound to timer.
func NewTimer(timer ports.TaskTimer, opts Options) *Timer {
	return &Timer{timer: timer, opts: opts}
}

// newModel builds the model with every callback routed to the timer.
func (t *Timer) newModel() Model {
	m := NewModel(t.timer.Snapshot(), t.opts.Theme)
	m.SetFetchState(t.timer.Snapshot)
	m.SetCommandCallback(t.timer.Apply)
	m.SetProcessCallback(t.timer.ParseTasks)
	m.SetRefreshInterval(t.opts.Refresh)
	m.SetGitLabel(t.opts.GitLabel)
	if t.opts.Export != nil {
		m.SetExportCallback(t.opts.Export)
	}
	if t.opts.OnRunComplete != nil {
		m.SetRunCompleteCallback(t.opts.OnRunComplete)
	}
	return m
}

// Run starts the interface and blocks until the user quits or ctx is done.
// It returns the final snapshot of the timer.
func (t *Timer) Run(ctx context.Context) (domain.Snapshot, error) {
	var popts []tea.ProgramOption
	if t.opts.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}

	program := tea.NewProgram(t.newModel(), popts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle context cancellation
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()

	cancel()
	t.wg.Wait()

	if err != nil {
		return t.timer.Snapshot(), fmt.Errorf("failed to run TUI: %w", err)
	}
	return t.timer.Snapshot(), nil
}
