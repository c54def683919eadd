// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go. It exposes the
// same two dual-purpose controls the TUI has, plus task processing.
type Server struct {
	server  *server.MCPServer
	timer   ports.TaskTimer
	reports ports.ReportWriter
	logger  *slog.Logger
}

// NewServer creates a new MCP server instance. reports may be nil, in
// which case export_laps reports an error.
func NewServer(timer ports.TaskTimer, reports ports.ReportWriter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		timer:   timer,
		reports: reports,
		logger:  logger,
	}

	s.server = server.NewMCPServer(
		"reps",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the stopwatch state: elapsed time, running flag, tasks, current task and laps"),
		),
		s.handleGetTimerState,
	)

	processTool := mcp.NewTool(
		"process_tasks",
		mcp.WithDescription("Replace the task list with the given text, one task per line. Rejected while the timer runs."),
		mcp.WithString(
			"tasks",
			mcp.Required(),
			mcp.Description("Newline separated task list; blank lines are ignored"),
		),
	)
	s.server.AddTool(processTool, s.handleProcessTasks)

	s.server.AddTool(
		mcp.NewTool(
			"press_primary",
			mcp.WithDescription("Press Start/Stop: starts a stopped timer or stops a running one"),
		),
		s.handlePress(ports.CmdPrimary),
	)

	s.server.AddTool(
		mcp.NewTool(
			"press_secondary",
			mcp.WithDescription("Press Lap/Reset: while running records a lap and advances to the next task, while stopped resets the stopwatch"),
		),
		s.handlePress(ports.CmdSecondary),
	)

	formatTool := mcp.NewTool(
		"format_elapsed",
		mcp.WithDescription("Format a number of seconds as MM:SS.CC"),
		mcp.WithNumber(
			"seconds",
			mcp.Required(),
			mcp.Description("Elapsed seconds, fractional allowed"),
		),
	)
	s.server.AddTool(formatTool, s.handleFormatElapsed)

	exportTool := mcp.NewTool(
		"export_laps",
		mcp.WithDescription("Render the recorded laps as a report"),
		mcp.WithString(
			"format",
			mcp.Description("Report format (default: md)"),
			mcp.Enum("md", "csv", "json", "yaml"),
		),
	)
	s.server.AddTool(exportTool, s.handleExportLaps)
}

// Start serves MCP requests on stdin/stdout until ctx is cancelled or
// stdin reaches EOF.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve runs the JSON-RPC loop over in and out. Pending tool calls are
// answered before it returns.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// lapView is the JSON shape of one lap.
type lapView struct {
	Number  int     `json:"number"`
	Elapsed string  `json:"elapsed"`
	Seconds float64 `json:"seconds"`
	Task    string  `json:"task,omitempty"`
}

// stateView is the JSON shape of a snapshot.
type stateView struct {
	RunID            string    `json:"run_id"`
	Elapsed          string    `json:"elapsed"`
	ElapsedSeconds   float64   `json:"elapsed_seconds"`
	Running          bool      `json:"running"`
	Tasks            []string  `json:"tasks"`
	CurrentTaskIndex int       `json:"current_task_index"`
	CurrentTask      string    `json:"current_task"`
	Completed        bool      `json:"completed"`
	PrimaryAction    string    `json:"primary_action"`
	SecondaryAction  string    `json:"secondary_action"`
	Laps             []lapView `json:"laps"`
}

func newStateView(snap domain.Snapshot) stateView {
	v := stateView{
		RunID:            snap.RunID,
		Elapsed:          snap.Formatted,
		ElapsedSeconds:   snap.Elapsed.Seconds(),
		Running:          snap.Running,
		Tasks:            snap.Tasks,
		CurrentTaskIndex: snap.CurrentTaskIndex,
		CurrentTask:      snap.Label,
		Completed:        snap.Complete,
		PrimaryAction:    snap.PrimaryLabel(),
		SecondaryAction:  snap.SecondaryLabel(),
		Laps:             make([]lapView, 0, len(snap.Entries)),
	}
	if v.Tasks == nil {
		v.Tasks = []string{}
	}
	for _, e := range snap.Entries {
		v.Laps = append(v.Laps, lapView{
			Number:  e.Number,
			Elapsed: e.Formatted,
			Seconds: e.Elapsed.Seconds(),
			Task:    e.Task,
		})
	}
	return v
}

func (s *Server) stateResult() (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(newStateView(s.timer.Snapshot()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetTimerState handles the get_timer_state tool.
func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stateResult()
}

// handleProcessTasks handles the process_tasks tool.
func (s *Server) handleProcessTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := request.RequireString("tasks")
	if err != nil {
		return mcp.NewToolResultError("tasks is required: " + err.Error()), nil
	}

	if err := s.timer.ParseTasks(tasks); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to process tasks: %v", err)), nil
	}
	s.logger.Debug("mcp: tasks processed")
	return s.stateResult()
}

// handlePress returns a handler that applies cmd.
func (s *Server) handlePress(cmd ports.TimerCommand) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.timer.Apply(cmd); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to apply %s: %v", cmd, err)), nil
		}
		s.logger.Debug("mcp: command applied", "command", string(cmd))
		return s.stateResult()
	}
}

// handleFormatElapsed handles the format_elapsed tool.
func (s *Server) handleFormatElapsed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seconds, err := request.RequireFloat("seconds")
	if err != nil {
		return mcp.NewToolResultError("seconds is required: " + err.Error()), nil
	}
	d, err := domain.SecondsToDuration(seconds)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(domain.FormatElapsed(d)), nil
}

// handleExportLaps handles the export_laps tool.
func (s *Server) handleExportLaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.reports == nil {
		return mcp.NewToolResultError("export is not configured"), nil
	}
	format := request.GetString("format", "md")

	var buf bytes.Buffer
	if err := s.reports.Write(ctx, &buf, format); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to export laps: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
