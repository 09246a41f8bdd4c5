package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sdfglayout/pkg/layout"
	"github.com/matzehuels/sdfglayout/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorBlue  = lipgloss.Color("75")  // Light blue - commands
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeader      = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printStats prints pass statistics on a single line.
func printStats(w io.Writer, s pipeline.Stats) {
	parts := []string{
		fmt.Sprintf("%d levels", s.Levels),
		fmt.Sprintf("%d blocks", s.Blocks),
		fmt.Sprintf("%d nodes", s.Nodes),
		fmt.Sprintf("%d edges", s.Edges),
	}
	if s.Shortcuts > 0 {
		parts = append(parts, fmt.Sprintf("%d shortcuts", s.Shortcuts))
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line)
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Level Table
// =============================================================================

var summaryColumns = []struct {
	title string
	width int
}{
	{"CFG", 5},
	{"OWNER", 12},
	{"SIZE", 18},
	{"BLOCKS", 8},
	{"NODES", 7},
	{"EDGES", 7},
	{"SHORTCUTS", 10},
	{"ENGINE", 10},
}

// renderSummary renders one row per registered level.
func renderSummary(title string, levels []layout.LevelSummary) string {
	row := func(style lipgloss.Style, cells ...string) string {
		var b strings.Builder
		for i, cell := range cells {
			b.WriteString(style.Width(summaryColumns[i].width).Render(cell))
		}
		return strings.TrimRight(b.String(), " ")
	}

	headers := make([]string, len(summaryColumns))
	for i, col := range summaryColumns {
		headers[i] = col.title
	}
	lines := []string{StyleTitle.Render(title), row(styleHeader, headers...)}
	for _, l := range levels {
		lines = append(lines, row(lipgloss.NewStyle(),
			fmt.Sprint(l.CFGID),
			l.Owner,
			fmt.Sprintf("%.0fx%.0f", l.Width, l.Height),
			fmt.Sprint(l.Blocks),
			fmt.Sprint(l.Nodes),
			fmt.Sprint(l.Edges),
			fmt.Sprint(l.Shortcuts),
			l.Engine,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
