// Package export renders lap reports in the supported file formats.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// Formats lists the supported export format names.
var Formats = []string{"md", "csv", "json", "yaml"}

// ForFormat returns the exporter registered for name.
func ForFormat(name string) (ports.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "md", "markdown", "":
		return Markdown{}, nil
	case "csv":
		return CSV{}, nil
	case "json":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", domain.ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// lapRecord is the flat row shared by the structured formats.
type lapRecord struct {
	Number    int     `json:"number" yaml:"number"`
	Task      string  `json:"task,omitempty" yaml:"task,omitempty"`
	Elapsed   string  `json:"elapsed" yaml:"elapsed"`
	Seconds   float64 `json:"seconds" yaml:"seconds"`
	Split     string  `json:"split" yaml:"split"`
	SplitSecs float64 `json:"split_seconds" yaml:"split_seconds"`
}

type reportDoc struct {
	RunID       string      `json:"run_id" yaml:"run_id"`
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Branch      string      `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit      string      `json:"commit,omitempty" yaml:"commit,omitempty"`
	Repository  string      `json:"repository,omitempty" yaml:"repository,omitempty"`
	Clean       *bool       `json:"clean,omitempty" yaml:"clean,omitempty"`
	Elapsed     string      `json:"elapsed" yaml:"elapsed"`
	Tasks       []string    `json:"tasks" yaml:"tasks"`
	Completed   bool        `json:"completed" yaml:"completed"`
	Laps        []lapRecord `json:"laps" yaml:"laps"`
}

// records returns laps oldest first, with each lap's split against the
// lap before it.
func records(snap domain.Snapshot) []lapRecord {
	out := make([]lapRecord, 0, len(snap.Entries))
	var prev time.Duration
	for i := len(snap.Entries) - 1; i >= 0; i-- {
		e := snap.Entries[i]
		split := e.Elapsed - prev
		out = append(out, lapRecord{
			Number:    e.Number,
			Task:      e.Task,
			Elapsed:   e.Formatted,
			Seconds:   e.Elapsed.Seconds(),
			Split:     domain.FormatElapsed(split),
			SplitSecs: split.Seconds(),
		})
		prev = e.Elapsed
	}
	return out
}

func newReportDoc(r domain.Report) reportDoc {
	tasks := r.Snapshot.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	doc := reportDoc{
		RunID:       r.Snapshot.RunID,
		GeneratedAt: r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Branch:      r.GitBranch,
		Commit:      r.GitCommit,
		Repository:  r.GitRepository,
		Elapsed:     r.Snapshot.Formatted,
		Tasks:       tasks,
		Completed:   r.Snapshot.Complete,
		Laps:        records(r.Snapshot),
	}
	// Worktree state is only known inside a repository.
	if r.GitCommit != "" {
		clean := r.GitClean
		doc.Clean = &clean
	}
	return doc
}
