package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/reps/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server runs its own stopwatch and exposes the same controls as the
timer screen: process tasks, Start/Stop, Lap/Reset and lap export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so status goes to stderr.
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server on stdio")

		ctx := setupSignalHandler()

		server := mcp.NewServer(app.timer, app.reports, app.logger)
		app.logger.Info("mcp server starting")
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
