package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one "Key: Value" line of a header, shown in insertion order
type Param struct {
	Key   string
	Value string
}

// Header represents a command header with title, command, and parameters.
type Header struct {
	Title   string  // e.g., "Device scan"
	Command string  // e.g., "adsscan scan --interface eth0"
	Params  []Param // e.g., {"Target", "interface eth0"}
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header sized to the terminal
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) > 0 {
		dividerWidth := width - 6 // border and padding
		if dividerWidth < 10 {
			dividerWidth = 10
		}

		paramLines := make([]string, len(h.Params))
		for i, p := range h.Params {
			paramLines[i] = HeaderParamKeyStyle.Render(p.Key+":") + " " + HeaderParamValueStyle.Render(p.Value)
		}

		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			RenderHorizontalDivider(dividerWidth, "─"),
			strings.Join(paramLines, "\n"),
		)
	}

	boxWidth := width - 2 // border characters
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(boxWidth).
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
