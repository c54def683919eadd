// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// DefaultTickInterval is the nominal spacing between ticks.
const DefaultTickInterval = 10 * time.Millisecond

// TaskTimerController owns the timer state and the single tick source
// feeding it. All methods are safe to call from the UI goroutine while
// ticks arrive on the source's goroutine.
type TaskTimerController struct {
	mu       sync.Mutex
	state    *domain.TimerState
	runID    string
	ticks    ports.TickSource
	interval time.Duration
	logger   *slog.Logger

	// generation identifies the live tick source; ticks stamped with an
	// older generation are dropped.
	generation uint64
	cancel     func()
}

// NewTaskTimerController creates a stopped controller fed by ticks.
// A nil tick source is allowed; time then only advances through Tick.
func NewTaskTimerController(ticks ports.TickSource, logger *slog.Logger) *TaskTimerController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskTimerController{
		state:    domain.NewTimerState(),
		runID:    domain.NewRunID(),
		ticks:    ticks,
		interval: DefaultTickInterval,
		logger:   logger,
	}
}

// SetInterval changes the tick spacing used by the next Start.
func (c *TaskTimerController) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.mu.Lock()
	c.interval = interval
	c.mu.Unlock()
}

// ParseTasks replaces the task list. It is rejected while the timer runs,
// since the new list would no longer line up with the laps being recorded.
func (c *TaskTimerController) ParseTasks(input string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Running {
		return fmt.Errorf("cannot replace tasks: %w", domain.ErrTimerRunning)
	}
	c.state.ParseTasks(input)
	c.logger.Info("tasks processed", "run_id", c.runID, "count", len(c.state.Tasks))
	return nil
}

// Apply routes a TimerCommand to DispatchPrimary or DispatchSecondary.
func (c *TaskTimerController) Apply(cmd ports.TimerCommand) error {
	switch cmd {
	case ports.CmdPrimary:
		c.DispatchPrimary()
	case ports.CmdSecondary:
		c.DispatchSecondary()
	default:
		return fmt.Errorf("unknown timer command %q", cmd)
	}
	return nil
}

// DispatchPrimary stops a running timer or starts a stopped one.
func (c *TaskTimerController) DispatchPrimary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Running {
		c.stopLocked()
		return
	}
	c.startLocked()
}

// DispatchSecondary laps and advances to the next task while running,
// or resets the stopwatch while stopped.
func (c *TaskTimerController) DispatchSecondary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Running {
		c.state.Reset()
		c.runID = domain.NewRunID()
		c.logger.Info("timer reset", "run_id", c.runID)
		return
	}

	c.state.Lap()
	completed := c.state.AdvanceTask()
	c.logger.Debug("lap recorded", "run_id", c.runID, "elapsed", c.state.Elapsed, "laps", len(c.state.Laps))
	if !c.state.Running {
		c.releaseTicksLocked()
		c.logger.Info("run finished", "run_id", c.runID, "completed", completed, "elapsed", c.state.Elapsed)
	}
}

// Tick adds d to the elapsed time if the timer is running.
func (c *TaskTimerController) Tick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Tick(d)
}

// Snapshot returns a copy of the current state.
func (c *TaskTimerController) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.state.Snapshot()
	snap.RunID = c.runID
	return snap
}

// Close stops the timer and releases the tick source.
func (c *TaskTimerController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *TaskTimerController) startLocked() {
	c.state.Start()
	c.generation++
	gen := c.generation
	if c.ticks != nil {
		c.cancel = c.ticks.Every(c.interval, func(d time.Duration) {
			c.deliver(gen, d)
		})
	}
	c.logger.Info("timer started", "run_id", c.runID, "interval", c.interval)
}

func (c *TaskTimerController) stopLocked() {
	if !c.state.Running {
		return
	}
	c.state.Stop()
	c.releaseTicksLocked()
	c.logger.Info("timer stopped", "run_id", c.runID, "elapsed", c.state.Elapsed)
}

// releaseTicksLocked retires the current tick source. Bumping the
// generation under the lock is what guarantees that a tick already in
// flight is dropped once it gets the lock.
func (c *TaskTimerController) releaseTicksLocked() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *TaskTimerController) deliver(gen uint64, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.state.Tick(d)
}

// Ensure TaskTimerController implements ports.TaskTimer.
var _ ports.TaskTimer = (*TaskTimerController)(nil)
