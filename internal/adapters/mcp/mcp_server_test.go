package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/reps/internal/domain"
	"github.com/xvierd/reps/internal/ports"
)

// mockTimer is an in-memory ports.TaskTimer backed by domain.TimerState.
type mockTimer struct {
	state    *domain.TimerState
	commands []ports.TimerCommand
}

func newMockTimer() *mockTimer {
	return &mockTimer{state: domain.NewTimerState()}
}

func (m *mockTimer) ParseTasks(input string) error {
	if m.state.Running {
		return domain.ErrTimerRunning
	}
	m.state.ParseTasks(input)
	return nil
}

func (m *mockTimer) Apply(cmd ports.TimerCommand) error {
	m.commands = append(m.commands, cmd)
	switch cmd {
	case ports.CmdPrimary:
		if m.state.Running {
			m.state.Stop()
		} else {
			m.state.Start()
		}
	case ports.CmdSecondary:
		if m.state.Running {
			m.state.Lap()
			m.state.AdvanceTask()
		} else {
			m.state.Reset()
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (m *mockTimer) Snapshot() domain.Snapshot {
	snap := m.state.Snapshot()
	snap.RunID = "run-test"
	return snap
}

// mockReports records the requested format and writes a fixed body.
type mockReports struct {
	format string
	err    error
}

func (m *mockReports) Write(ctx context.Context, w io.Writer, format string) error {
	m.format = format
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "report:"+format)
	return err
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", c)
		return ""
	}
}

func decodeState(t *testing.T, result *mcp.CallToolResult) stateView {
	t.Helper()
	var v stateView
	if err := json.Unmarshal([]byte(resultText(t, result)), &v); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	return v
}

func TestNewServer(t *testing.T) {
	timer := newMockTimer()
	server := NewServer(timer, nil, nil)

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.timer != timer {
		t.Error("NewServer() did not set timer correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_ServeReturnsOnCancelledContext(t *testing.T) {
	server := NewServer(newMockTimer(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := server.Serve(ctx, strings.NewReader(""), &out); err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}

func TestServer_ServeToolCall(t *testing.T) {
	server := NewServer(newMockTimer(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"format_elapsed","arguments":{"seconds":65.25}}}` + "\n")
	var out bytes.Buffer
	if err := server.Serve(ctx, in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	var resp struct {
		ID     int `json:"id"`
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response %q: %v", out.String(), err)
	}
	if resp.ID != 1 || resp.Result.IsError {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Result.Content) != 1 || resp.Result.Content[0].Text != "01:05.25" {
		t.Errorf("content = %+v, want 01:05.25", resp.Result.Content)
	}
}

func TestServer_handleGetTimerState_Empty(t *testing.T) {
	server := NewServer(newMockTimer(), nil, nil)

	result, err := server.handleGetTimerState(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleGetTimerState() error = %v", err)
	}

	v := decodeState(t, result)
	if v.Elapsed != "00:00.00" {
		t.Errorf("Elapsed = %q, want 00:00.00", v.Elapsed)
	}
	if v.Running {
		t.Error("Running should be false")
	}
	if v.Tasks == nil || len(v.Tasks) != 0 {
		t.Errorf("Tasks = %v, want empty list", v.Tasks)
	}
	if v.PrimaryAction != "Start" || v.SecondaryAction != "Reset" {
		t.Errorf("actions = %s/%s, want Start/Reset", v.PrimaryAction, v.SecondaryAction)
	}
}

func TestServer_handleProcessTasks(t *testing.T) {
	timer := newMockTimer()
	server := NewServer(timer, nil, nil)

	result, err := server.handleProcessTasks(context.Background(), callRequest(map[string]interface{}{
		"tasks": "  a\n\nb  \r\nc",
	}))
	if err != nil {
		t.Fatalf("handleProcessTasks() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleProcessTasks() returned error result: %s", resultText(t, result))
	}

	v := decodeState(t, result)
	if strings.Join(v.Tasks, ",") != "a,b,c" {
		t.Errorf("Tasks = %v, want [a b c]", v.Tasks)
	}
	if v.CurrentTask != "a" {
		t.Errorf("CurrentTask = %q, want a", v.CurrentTask)
	}
}

func TestServer_handleProcessTasks_MissingArgument(t *testing.T) {
	server := NewServer(newMockTimer(), nil, nil)

	result, err := server.handleProcessTasks(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleProcessTasks() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleProcessTasks() should return error for missing tasks")
	}
}

func TestServer_handleProcessTasks_WhileRunning(t *testing.T) {
	timer := newMockTimer()
	_ = timer.ParseTasks("a")
	_ = timer.Apply(ports.CmdPrimary)
	server := NewServer(timer, nil, nil)

	result, err := server.handleProcessTasks(context.Background(), callRequest(map[string]interface{}{
		"tasks": "b",
	}))
	if err != nil {
		t.Fatalf("handleProcessTasks() error = %v", err)
	}
	if !result.IsError {
		t.Error("processing while running should be rejected")
	}
	if got := timer.Snapshot().Tasks; len(got) != 1 || got[0] != "a" {
		t.Errorf("Tasks = %v, want unchanged", got)
	}
}

func TestServer_handlePress(t *testing.T) {
	timer := newMockTimer()
	_ = timer.ParseTasks("X\nY")
	server := NewServer(timer, nil, nil)
	ctx := context.Background()

	result, err := server.handlePress(ports.CmdPrimary)(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("press_primary error = %v", err)
	}
	if v := decodeState(t, result); !v.Running || v.PrimaryAction != "Stop" {
		t.Errorf("after primary: running=%v action=%s", v.Running, v.PrimaryAction)
	}

	timer.state.Tick(time.Second)
	result, _ = server.handlePress(ports.CmdSecondary)(ctx, callRequest(nil))
	timer.state.Tick(time.Second)
	result, _ = server.handlePress(ports.CmdSecondary)(ctx, callRequest(nil))

	v := decodeState(t, result)
	if v.Running {
		t.Error("last lap should stop the timer")
	}
	if !v.Completed || v.CurrentTask != domain.CompletionLabel {
		t.Errorf("completed=%v current=%q", v.Completed, v.CurrentTask)
	}
	if len(v.Laps) != 2 || v.Laps[0].Task != "Y" || v.Laps[1].Task != "X" {
		t.Errorf("Laps = %+v, want Y then X", v.Laps)
	}
	if v.Laps[0].Elapsed != "00:02.00" {
		t.Errorf("latest lap = %q, want 00:02.00", v.Laps[0].Elapsed)
	}

	want := []ports.TimerCommand{ports.CmdPrimary, ports.CmdSecondary, ports.CmdSecondary}
	if len(timer.commands) != len(want) {
		t.Fatalf("commands = %v, want %v", timer.commands, want)
	}
}

func TestServer_handleFormatElapsed(t *testing.T) {
	server := NewServer(newMockTimer(), nil, nil)

	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00.00"},
		{65.25, "01:05.25"},
		{3600, "60:00.00"},
		{-3, "00:00.00"},
	}
	for _, tt := range tests {
		result, err := server.handleFormatElapsed(context.Background(), callRequest(map[string]interface{}{
			"seconds": tt.seconds,
		}))
		if err != nil {
			t.Fatalf("handleFormatElapsed() error = %v", err)
		}
		if got := resultText(t, result); got != tt.want {
			t.Errorf("format_elapsed(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}

	result, _ := server.handleFormatElapsed(context.Background(), callRequest(map[string]interface{}{}))
	if !result.IsError {
		t.Error("missing seconds should be an error result")
	}
	result, _ = server.handleFormatElapsed(context.Background(), callRequest(map[string]interface{}{
		"seconds": 1e12,
	}))
	if !result.IsError {
		t.Error("seconds past the duration range should be an error result")
	}
	if got := resultText(t, result); !strings.Contains(got, "out of range") {
		t.Errorf("error text = %q", got)
	}
}

func TestServer_handleExportLaps(t *testing.T) {
	reports := &mockReports{}
	server := NewServer(newMockTimer(), reports, nil)

	result, err := server.handleExportLaps(context.Background(), callRequest(map[string]interface{}{
		"format": "csv",
	}))
	if err != nil {
		t.Fatalf("handleExportLaps() error = %v", err)
	}
	if got := resultText(t, result); got != "report:csv" {
		t.Errorf("export = %q", got)
	}

	_, _ = server.handleExportLaps(context.Background(), callRequest(nil))
	if reports.format != "md" {
		t.Errorf("default format = %q, want md", reports.format)
	}
}

func TestServer_handleExportLaps_Errors(t *testing.T) {
	server := NewServer(newMockTimer(), &mockReports{err: domain.ErrNoLaps}, nil)
	result, err := server.handleExportLaps(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleExportLaps() error = %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "no laps recorded") {
		t.Error("export without laps should be an error result")
	}

	server = NewServer(newMockTimer(), nil, nil)
	result, _ = server.handleExportLaps(context.Background(), callRequest(nil))
	if !result.IsError {
		t.Error("export without a report writer should be an error result")
	}
}
