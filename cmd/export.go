package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/reps/internal/adapters/export"
	"github.com/xvierd/reps/internal/config"
	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/services"
)

var (
	exportFormat string
	exportTasks  string
	exportLaps   string
	exportSave   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build a lap report from recorded times",
	Long: `Replay a run from a task file and its lap times and print the report.

Lap times are the stopwatch readings in seconds at each lap, in order, for
example --laps 61.5,130,190.25. Each lap closes the next task; the last
task's lap ends the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: "+strings.Join(export.Formats, ", ")+" (default from config)")
	exportCmd.Flags().StringVar(&exportTasks, "tasks", "", "Task file, one task per line")
	exportCmd.Flags().StringVar(&exportLaps, "laps", "", "Comma separated stopwatch readings in seconds")
	exportCmd.Flags().BoolVar(&exportSave, "save", false, "Write the report into the export directory instead of stdout")
	_ = exportCmd.MarkFlagRequired("laps")
}

func runExport(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := exportFormat
	if format == "" {
		format = app.config.Export.Format
	}

	var tasks string
	if exportTasks != "" {
		data, err := os.ReadFile(exportTasks)
		if err != nil {
			return fmt.Errorf("failed to read tasks file: %w", err)
		}
		tasks = string(data)
	}

	laps, err := parseLapReadings(exportLaps)
	if err != nil {
		return err
	}

	replay, err := replayRun(tasks, laps)
	if err != nil {
		return err
	}

	reports := services.NewReportService(replay, app.git, export.ForFormat, config.GetExportDir(app.config), app.logger)
	if exportSave {
		path, err := reports.SaveFile(ctx, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}
	return reports.Write(ctx, cmd.OutOrStdout(), format)
}

// parseLapReadings parses a comma separated list of non-decreasing seconds.
func parseLapReadings(s string) ([]time.Duration, error) {
	var laps []time.Duration
	var prev time.Duration
	for i, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		secs, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lap %d %q: %w", i+1, field, err)
		}
		d, err := domain.SecondsToDuration(secs)
		if err != nil {
			return nil, fmt.Errorf("invalid lap %d: %w", i+1, err)
		}
		if d < prev {
			return nil, fmt.Errorf("lap %d (%s) is earlier than the lap before it", i+1, field)
		}
		laps = append(laps, d)
		prev = d
	}
	if len(laps) == 0 {
		return nil, domain.ErrNoLaps
	}
	return laps, nil
}

// replayRun drives a clockless controller through the recorded laps.
func replayRun(tasks string, laps []time.Duration) (*services.TaskTimerController, error) {
	c := services.NewTaskTimerController(nil, app.logger)
	if err := c.ParseTasks(tasks); err != nil {
		return nil, err
	}

	c.DispatchPrimary()
	var prev time.Duration
	for i, at := range laps {
		if !c.Snapshot().Running {
			return nil, fmt.Errorf("lap %d has no task left to close (%d tasks)", i+1, len(c.Snapshot().Tasks))
		}
		c.Tick(at - prev)
		c.DispatchSecondary()
		prev = at
	}
	c.Close()
	return c, nil
}
