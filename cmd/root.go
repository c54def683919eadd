// Package cmd provides the CLI commands for the reps application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/xvierd/reps/internal/adapters/tui"
	"github.com/xvierd/reps/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"

	// Global flags
	tasksFile  string
	logLevel   string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reps",
	Short: "reps - a stopwatch that walks you through a task list",
	Long: `reps is a terminal stopwatch for working through a list of tasks.

Paste or type your tasks (one per line), start the clock and press Lap as
you finish each one. reps records how long every task took and stops on
its own after the last one.

Run "reps" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTimer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.Flags().StringVarP(&tasksFile, "file", "f", "", "Load tasks from a file, one per line")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("reps\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// runTimer opens the interactive stopwatch.
func runTimer(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	if tasksFile != "" {
		if err := loadTasksFile(tasksFile); err != nil {
			return err
		}
	}

	hooks := &completionHooks{ctx: ctx}
	timer := tui.NewTimer(app.timer, tui.Options{
		Theme:         &app.config.Theme,
		Refresh:       app.config.RefreshInterval(),
		GitLabel:      gitLabel(ctx),
		AltScreen:     true,
		Export:        func() (string, error) { return app.reports.SaveFile(ctx, app.config.Export.Format) },
		OnRunComplete: hooks.fire,
	})

	_, err := timer.Run(ctx)
	hooks.wait()
	if err != nil {
		return err
	}
	app.timer.Close()

	return printExitSummary(ctx, cmd.OutOrStdout())
}

func loadTasksFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tasks file: %w", err)
	}
	if err := app.timer.ParseTasks(string(data)); err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	return nil
}

// gitLabel describes the repository the run happens in, or "" outside one.
func gitLabel(ctx context.Context) string {
	info, err := app.git.Detect(ctx, "")
	if err != nil {
		return ""
	}
	commit := domain.ShortCommit(info.Commit)
	if !info.IsClean {
		commit += "*"
	}
	return fmt.Sprintf("⎇ %s (%s)", info.Branch, commit)
}

// completionHooks runs end-of-run work off the UI goroutine. runTimer
// waits for it before the log file is closed.
type completionHooks struct {
	ctx context.Context
	wg  sync.WaitGroup
}

func (h *completionHooks) fire(snap domain.Snapshot) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		onRunComplete(h.ctx, snap)
	}()
}

func (h *completionHooks) wait() {
	h.wg.Wait()
}

// onRunComplete notifies and, when configured, exports the finished run.
func onRunComplete(ctx context.Context, snap domain.Snapshot) {
	app.logger.Info("all tasks completed", "run_id", snap.RunID, "elapsed", snap.Elapsed, "laps", len(snap.Laps))

	if err := app.notifier.NotifyRunComplete(snap); err != nil {
		app.logger.Warn("notification failed", "error", err)
	}
	if app.config.Export.OnComplete {
		if _, err := app.reports.SaveSnapshot(ctx, snap, app.config.Export.Format); err != nil {
			app.logger.Warn("auto export failed", "error", err)
		}
	}
}

// printExitSummary writes the lap table once the TUI has released the terminal.
func printExitSummary(ctx context.Context, w io.Writer) error {
	format := "md"
	if jsonOutput {
		format = "json"
	}
	err := app.reports.Write(ctx, w, format)
	if errors.Is(err, domain.ErrNoLaps) {
		return nil
	}
	return err
}
