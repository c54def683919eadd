package domain

import "time"

// LapEntry is one row of the lap list, paired with the task it closed.
type LapEntry struct {
	Number    int
	Elapsed   time.Duration
	Formatted string
	Task      string
}

// Snapshot is a read-only copy of TimerState plus the derived values
// the presentation layer renders.
type Snapshot struct {
	RunID            string
	Elapsed          time.Duration
	Formatted        string
	Running          bool
	Tasks            []string
	CurrentTaskIndex int
	Label            string
	Complete         bool
	Laps             []time.Duration
	Entries          []LapEntry
}

// Snapshot copies the state so callers can hold it across mutations.
func (s *TimerState) Snapshot() Snapshot {
	snap := Snapshot{
		Elapsed:          s.Elapsed,
		Formatted:        FormatElapsed(s.Elapsed),
		Running:          s.Running,
		Tasks:            append([]string{}, s.Tasks...),
		CurrentTaskIndex: s.CurrentTaskIndex,
		Label:            s.CurrentTaskLabel(),
		Complete:         s.IsComplete(),
		Laps:             append([]time.Duration{}, s.Laps...),
		Entries:          make([]LapEntry, 0, len(s.Laps)),
	}
	for i, lap := range s.Laps {
		snap.Entries = append(snap.Entries, LapEntry{
			Number:    len(s.Laps) - i,
			Elapsed:   lap,
			Formatted: FormatElapsed(lap),
			Task:      s.TaskForLap(i),
		})
	}
	return snap
}

// HasTasks returns true if a task list has been processed.
func (s Snapshot) HasTasks() bool {
	return len(s.Tasks) > 0
}

// PrimaryLabel is the caption of the start/stop control.
func (s Snapshot) PrimaryLabel() string {
	if s.Running {
		return "Stop"
	}
	return "Start"
}

// SecondaryLabel is the caption of the lap/reset control.
func (s Snapshot) SecondaryLabel() string {
	if s.Running {
		return "Lap"
	}
	return "Reset"
}

// Report bundles a snapshot with the context an export needs.
type Report struct {
	Snapshot      Snapshot
	GeneratedAt   time.Time
	GitBranch     string
	GitCommit     string
	GitRepository string
	GitClean      bool
}

// ShortCommit abbreviates a commit hash to seven characters.
func ShortCommit(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
