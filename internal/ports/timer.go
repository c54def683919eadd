// Package ports defines the interfaces (driven and driving ports)
// for the reps application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"time"

	"github.com/xvierd/reps/internal/domain"
)

// TickSource delivers periodic ticks to the task timer.
// This is a driven port (implemented by adapters).
type TickSource interface {
	// Every calls fn roughly once per interval, from a goroutine owned by the
	// source, passing the time elapsed since the previous call. Ticks stop
	// once the returned cancel function has been called. Cancel never blocks
	// and may be called more than once.
	Every(interval time.Duration, fn func(delta time.Duration)) (cancel func())
}

// TimerCommand represents a user action routed to the task timer.
type TimerCommand string

const (
	// CmdPrimary starts a stopped timer or stops a running one.
	CmdPrimary TimerCommand = "primary"

	// CmdSecondary laps and advances while running, or resets while stopped.
	CmdSecondary TimerCommand = "secondary"
)

// TaskTimer is the interface the presentation layers drive.
// This is a driving port (called by the TUI and the MCP server).
type TaskTimer interface {
	// ParseTasks replaces the task list with the lines of input.
	ParseTasks(input string) error

	// Apply routes a context-sensitive command to the timer.
	Apply(cmd TimerCommand) error

	// Snapshot returns a copy of the current state.
	Snapshot() domain.Snapshot
}
