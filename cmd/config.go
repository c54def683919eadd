package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/reps/internal/adapters/export"
	"github.com/xvierd/reps/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit timer, notification and export settings",
	Long:  `Interactively configure the tick interval, notifications and lap export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current configuration:")
		fmt.Fprintln(out)
		printConfigSummary(out, app.config)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  What would you like to change?")
		fmt.Fprintln(out, "    [t] Tick and refresh intervals")
		fmt.Fprintln(out, "    [n] Notifications")
		fmt.Fprintln(out, "    [e] Export format")
		fmt.Fprintln(out, "    [a] Toggle export on completion")
		fmt.Fprintln(out, "    [q] Quit without saving")
		fmt.Fprint(out, "  Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch choice {
		case "t":
			return editIntervals(reader, out, app.config)
		case "n":
			return editNotifications(reader, out, app.config)
		case "e":
			return editExportFormat(reader, out, app.config)
		case "a":
			app.config.Export.OnComplete = !app.config.Export.OnComplete
			if err := config.Save(app.config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(out, "\n  Saved: export on completion %s\n", onOff(app.config.Export.OnComplete))
			return nil
		case "q", "":
			fmt.Fprintln(out, "  No changes made.")
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			jsonData, err := json.MarshalIndent(app.config, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		}
		printConfigSummary(cmd.OutOrStdout(), app.config)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	notifStatus := onOff(cfg.Notifications.Enabled)
	if cfg.Notifications.Enabled && cfg.Notifications.Sound {
		notifStatus = "on (with sound)"
	}
	fmt.Fprintf(w, "    Tick interval:         %s\n", cfg.TickInterval())
	fmt.Fprintf(w, "    Refresh interval:      %s\n", cfg.RefreshInterval())
	fmt.Fprintf(w, "    Notifications:         %s\n", notifStatus)
	fmt.Fprintf(w, "    Export format:         %s\n", cfg.Export.Format)
	fmt.Fprintf(w, "    Export on completion:  %s\n", onOff(cfg.Export.OnComplete))
	fmt.Fprintf(w, "    Export directory:      %s\n", config.GetExportDir(cfg))
	fmt.Fprintf(w, "    Log file:              %s (%s)\n", config.GetLogPath(cfg), cfg.Log.Level)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func editIntervals(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	tick := cfg.TickInterval()
	refresh := cfg.RefreshInterval()

	fmt.Fprintln(w, "\n  Editing intervals")

	fmt.Fprintf(w, "  Tick interval [%s]: ", tick)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input != "" {
		parsed, err := time.ParseDuration(input)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", input, err)
		}
		if parsed < time.Millisecond {
			return fmt.Errorf("tick interval must be at least 1ms")
		}
		tick = parsed
	}

	fmt.Fprintf(w, "  Refresh interval [%s]: ", refresh)
	input, _ = reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input != "" {
		parsed, err := time.ParseDuration(input)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", input, err)
		}
		if parsed < 10*time.Millisecond {
			return fmt.Errorf("refresh interval must be at least 10ms")
		}
		refresh = parsed
	}

	cfg.Timer.TickInterval = config.Duration(tick)
	cfg.Timer.RefreshInterval = config.Duration(refresh)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(w, "\n  Saved: tick %s, refresh %s\n", tick, refresh)
	return nil
}

func editNotifications(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    [1] Off")
	fmt.Fprintln(w, "    [2] On (visual only)")
	fmt.Fprintln(w, "    [3] On (with sound)")
	fmt.Fprint(w, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	status := onOff(cfg.Notifications.Enabled)
	if cfg.Notifications.Sound {
		status = "on (with sound)"
	}
	fmt.Fprintf(w, "\n  Saved: notifications %s\n", status)
	return nil
}

func editExportFormat(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "\n  Export format (%s) [%s]: ", strings.Join(export.Formats, ", "), cfg.Export.Format)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	exp, err := export.ForFormat(input)
	if err != nil {
		return err
	}
	cfg.Export.Format = exp.Extension()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(w, "\n  Saved: export format %s\n", cfg.Export.Format)
	return nil
}
