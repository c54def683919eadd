package export

import (
	"io"

	"github.com/xvierd/reps/internal/domain"
	"gopkg.in/yaml.v3"
)

// YAML renders the report as a YAML document.
type YAML struct{}

// Extension implements ports.Exporter.
func (YAML) Extension() string { return "yaml" }

// Export implements ports.Exporter.
func (YAML) Export(w io.Writer, r domain.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newReportDoc(r)); err != nil {
		return err
	}
	return enc.Close()
}
