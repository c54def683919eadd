package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xvierd/reps/internal/domain"
)

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format <seconds>...",
	Short: "Format seconds as MM:SS.CC",
	Long: `Print each value the way the stopwatch displays it: minutes, seconds
and hundredths. Minutes keep counting past 99 instead of rolling into hours.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type formatted struct {
			Seconds   float64 `json:"seconds"`
			Formatted string  `json:"formatted"`
		}

		results := make([]formatted, 0, len(args))
		for _, arg := range args {
			secs, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q: %w", arg, err)
			}
			d, err := domain.SecondsToDuration(secs)
			if err != nil {
				return fmt.Errorf("invalid seconds %q: %w", arg, err)
			}
			results = append(results, formatted{
				Seconds:   secs,
				Formatted: domain.FormatElapsed(d),
			})
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		}

		for _, r := range results {
			fmt.Fprintln(cmd.OutOrStdout(), r.Formatted)
		}
		return nil
	},
}
