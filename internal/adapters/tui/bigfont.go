package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 3

// segments holds seven-segment style glyphs for the stopwatch readout.
var segments = map[rune][glyphRows]string{
	'0': {" _ ", "| |", "|_|"},
	'1': {"   ", "  |", "  |"},
	'2': {" _ ", " _|", "|_ "},
	'3': {" _ ", " _|", " _|"},
	'4': {"   ", "|_|", "  |"},
	'5': {" _ ", "|_ ", " _|"},
	'6': {" _ ", "|_ ", "|_|"},
	'7': {" _ ", "  |", "  |"},
	'8': {" _ ", "|_|", "|_|"},
	'9': {" _ ", "|_|", " _|"},
	':': {" ", "o", "o"},
	'.': {" ", " ", "o"},
}

// bigTimeWidth is the number of columns the segment rendering of s needs.
func bigTimeWidth(s string) int {
	width := 0
	for _, ch := range s {
		glyph, ok := segments[ch]
		if !ok {
			continue
		}
		if width > 0 {
			width++
		}
		width += len(glyph[0])
	}
	return width
}

// renderBigTime renders a readout like "01:05.25" in segment digits, or as
// a single bold line when the terminal is too narrow for it.
func renderBigTime(readout string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigTimeWidth(readout)+4 {
		return style.Render(readout)
	}

	var rows [glyphRows]strings.Builder
	for _, ch := range readout {
		glyph, ok := segments[ch]
		if !ok {
			continue
		}
		for i := range rows {
			if rows[i].Len() > 0 {
				rows[i].WriteByte(' ')
			}
			rows[i].WriteString(glyph[i])
		}
	}

	out := make([]string, glyphRows)
	for i := range rows {
		out[i] = style.Render(rows[i].String())
	}
	return strings.Join(out, "\n")
}
