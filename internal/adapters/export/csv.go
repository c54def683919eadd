package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xvierd/reps/internal/domain"
)

// CSV renders one row per lap.
type CSV struct{}

// Extension implements ports.Exporter.
func (CSV) Extension() string { return "csv" }

// Export implements ports.Exporter.
func (CSV) Export(w io.Writer, r domain.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"lap", "task", "elapsed", "seconds", "split", "split_seconds"}); err != nil {
		return err
	}
	for _, rec := range records(r.Snapshot) {
		row := []string{
			strconv.Itoa(rec.Number),
			rec.Task,
			rec.Elapsed,
			strconv.FormatFloat(rec.Seconds, 'f', 2, 64),
			rec.Split,
			strconv.FormatFloat(rec.SplitSecs, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
