package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xvierd/reps/internal/domain"
)

// Markdown renders the lap table as a markdown document.
type Markdown struct{}

// Extension implements ports.Exporter.
func (Markdown) Extension() string { return "md" }

// Export implements ports.Exporter.
func (Markdown) Export(w io.Writer, r domain.Report) error {
	var b strings.Builder

	b.WriteString("# reps run\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	if r.GitRepository != "" {
		fmt.Fprintf(&b, "Repository: %s\n", r.GitRepository)
	}
	if r.GitBranch != "" {
		fmt.Fprintf(&b, "Branch: %s", r.GitBranch)
		if r.GitCommit != "" {
			fmt.Fprintf(&b, " (%s", domain.ShortCommit(r.GitCommit))
			if !r.GitClean {
				b.WriteString(", uncommitted changes")
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total: %s\n", r.Snapshot.Formatted)
	if r.Snapshot.Complete {
		fmt.Fprintf(&b, "Status: %s\n", domain.CompletionLabel)
	}
	b.WriteString("\n")

	b.WriteString(Table(r.Snapshot))

	_, err := io.WriteString(w, b.String())
	return err
}

// Table renders only the lap table, oldest lap first.
func Table(snap domain.Snapshot) string {
	var b strings.Builder
	b.WriteString("| # | Task | Elapsed | Split |\n")
	b.WriteString("|---|------|---------|-------|\n")
	for _, rec := range records(snap) {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", rec.Number, escapeCell(rec.Task), rec.Elapsed, rec.Split)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
