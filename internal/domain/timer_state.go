// Package domain contains the core state of the reps task timer.
// The types here know nothing about clocks, terminals or files; callers
// drive them with discrete intents and read the result back.
package domain

import "time"

// TimerState holds the stopwatch and the task pointer for one run.
type TimerState struct {
	Elapsed          time.Duration
	Running          bool
	Tasks            []string
	CurrentTaskIndex int
	// Laps are elapsed snapshots, most recent first.
	Laps []time.Duration
}

// NewTimerState returns a stopped, empty state.
func NewTimerState() *TimerState {
	return &TimerState{Tasks: []string{}}
}

// ParseTasks replaces the task list with the lines of input and rewinds
// the task pointer. Elapsed time, laps and the running flag are untouched.
func (s *TimerState) ParseTasks(input string) {
	s.Tasks = ParseTaskList(input)
	s.CurrentTaskIndex = 0
}

// Start marks the state as running.
func (s *TimerState) Start() {
	s.Running = true
}

// Stop marks the state as stopped.
func (s *TimerState) Stop() {
	s.Running = false
}

// Tick adds d to the elapsed time while running.
func (s *TimerState) Tick(d time.Duration) {
	if !s.Running || d <= 0 {
		return
	}
	s.Elapsed += d
}

// Lap records the current elapsed time at the front of the lap list.
// It does nothing while stopped.
func (s *TimerState) Lap() {
	if !s.Running {
		return
	}
	s.Laps = append([]time.Duration{s.Elapsed}, s.Laps...)
}

// AdvanceTask moves to the next task. Advancing past the last task (or with
// no tasks at all) stops the timer and parks the pointer at len(Tasks).
// It reports whether the run just completed.
func (s *TimerState) AdvanceTask() bool {
	if s.CurrentTaskIndex >= len(s.Tasks)-1 {
		s.Stop()
		s.CurrentTaskIndex = len(s.Tasks)
		return true
	}
	s.CurrentTaskIndex++
	return false
}

// Reset clears elapsed time, laps and the task pointer but keeps the tasks.
// It does nothing while running.
func (s *TimerState) Reset() {
	if s.Running {
		return
	}
	s.Elapsed = 0
	s.Laps = nil
	s.CurrentTaskIndex = 0
}

// CurrentTaskLabel returns the active task, or CompletionLabel when the
// pointer is past the end of the list.
func (s *TimerState) CurrentTaskLabel() string {
	if len(s.Tasks) == 0 || s.CurrentTaskIndex >= len(s.Tasks) {
		return CompletionLabel
	}
	return s.Tasks[s.CurrentTaskIndex]
}

// IsComplete returns true once every task in a non-empty list has been lapped.
func (s *TimerState) IsComplete() bool {
	return len(s.Tasks) > 0 && s.CurrentTaskIndex >= len(s.Tasks)
}

// TaskForLap returns the task closed by the lap at position i from the
// front of Laps, or "" when that position has no matching task.
func (s *TimerState) TaskForLap(i int) string {
	j := len(s.Laps) - i - 1
	if i < 0 || j < 0 || j >= len(s.Tasks) {
		return ""
	}
	return s.Tasks[j]
}
