package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/reps/internal/domain"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Show how a task list will be read",
	Long: `Parse a task list the same way the timer does and print the result.
Reads the file if one is given, otherwise standard input. Blank lines are
dropped and surrounding whitespace is trimmed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readTaskInput(cmd, args)
		if err != nil {
			return err
		}

		tasks := domain.ParseTaskList(input)
		if jsonOutput {
			return outputParseJSON(cmd.OutOrStdout(), tasks)
		}
		printTaskList(cmd.OutOrStdout(), tasks)
		return nil
	},
}

func readTaskInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read tasks file: %w", err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		return "", errors.New("no input: pass a file or pipe tasks on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// outputParseJSON outputs the parsed tasks in JSON format
func outputParseJSON(w io.Writer, tasks []string) error {
	result := map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

func printTaskList(w io.Writer, tasks []string) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tasks found."))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d tasks", len(tasks))))
	for i, t := range tasks {
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render(fmt.Sprintf("%3d.", i+1)), t)
	}
}
