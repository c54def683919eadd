package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/reps/internal/domain"
)

// maxVisibleLaps caps the lap list so the timer stays on screen.
const maxVisibleLaps = 8

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render("⏱  reps"))
	if m.gitLabel != "" {
		sections = append(sections, helpStyle.Render(m.gitLabel))
	}

	sections = append(sections, m.viewTask())
	sections = append(sections, "")
	sections = append(sections, renderBigTime(m.state.Formatted, m.timerColor(), m.width))
	sections = append(sections, "")
	sections = append(sections, m.viewControls())

	sections = append(sections, "")
	sections = append(sections, m.viewEditor())

	if laps := m.viewLaps(); laps != "" {
		sections = append(sections, "")
		sections = append(sections, laps)
	}

	if m.lastError != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError))
		sections = append(sections, "")
		sections = append(sections, errStyle.Render("Error: "+m.lastError.Error()))
	} else if m.status != "" {
		sections = append(sections, "")
		sections = append(sections, helpStyle.Render(m.status))
	}

	sections = append(sections, "")
	sections = append(sections, m.help.View(helpKeys{keys: m.keys, editing: m.editing}))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) timerColor() lipgloss.Color {
	if m.state.Running {
		return lipgloss.Color(m.theme.ColorRunning)
	}
	return lipgloss.Color(m.theme.ColorStopped)
}

func (m Model) viewTask() string {
	taskStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTask))
	if !m.state.HasTasks() {
		return lipgloss.NewStyle().Faint(true).Render("No tasks loaded")
	}
	if m.state.Complete {
		return taskStyle.Render(m.state.Label)
	}
	return taskStyle.Render(fmt.Sprintf("Task %d/%d: %s", m.state.CurrentTaskIndex+1, len(m.state.Tasks), m.state.Label))
}

// viewControls renders the two dual-purpose buttons.
func (m Model) viewControls() string {
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder())
	primary := button.BorderForeground(m.timerColor()).Render("[space] " + m.state.PrimaryLabel())
	secondary := button.BorderForeground(lipgloss.Color(m.theme.ColorLap)).Render("[enter] " + m.state.SecondaryLabel())
	return lipgloss.JoinHorizontal(lipgloss.Center, primary, "  ", secondary)
}

func (m Model) viewEditor() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	if !m.editing {
		if m.state.HasTasks() {
			return helpStyle.Render(fmt.Sprintf("%d tasks · [e] edit", len(m.state.Tasks)))
		}
		return helpStyle.Render("[e] add tasks")
	}

	process := "[ctrl+s] Process tasks"
	if m.keys.Process.Enabled() {
		process = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTask)).Render(process)
	} else {
		process = lipgloss.NewStyle().Faint(true).Render(process)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), process)
}

// viewLaps lists laps most recent first, each with the task it closed.
func (m Model) viewLaps() string {
	if len(m.state.Entries) == 0 {
		return ""
	}
	lapStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorLap))
	nameStyle := lipgloss.NewStyle().Faint(true)

	var rows []string
	for i, e := range m.state.Entries {
		if i == maxVisibleLaps {
			rows = append(rows, nameStyle.Render(fmt.Sprintf("… %d more", len(m.state.Entries)-maxVisibleLaps)))
			break
		}
		rows = append(rows, lapStyle.Render(formatLapLine(e)))
		if e.Task != "" {
			rows = append(rows, nameStyle.Render("  "+e.Task))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func formatLapLine(e domain.LapEntry) string {
	return fmt.Sprintf("Task %d: %s", e.Number, e.Formatted)
}
