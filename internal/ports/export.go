package ports

import (
	"context"
	"io"

	"github.com/xvierd/reps/internal/domain"
)

// Exporter writes a lap report in a given format.
// This is a driven port (implemented by adapters).
type Exporter interface {
	// Export writes report to w.
	Export(w io.Writer, report domain.Report) error

	// Extension returns the file extension for this format, without the dot.
	Extension() string
}

// ReportWriter renders the current run's lap report.
type ReportWriter interface {
	// Write renders the report in format to w.
	Write(ctx context.Context, w io.Writer, format string) error
}
