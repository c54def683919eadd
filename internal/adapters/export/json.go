package export

import (
	"encoding/json"
	"io"

	"github.com/xvierd/reps/internal/domain"
)

// JSON renders the report as an indented JSON document.
type JSON struct{}

// Extension implements ports.Exporter.
func (JSON) Extension() string { return "json" }

// Export implements ports.Exporter.
func (JSON) Export(w io.Writer, r domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReportDoc(r))
}
