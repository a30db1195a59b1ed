package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waterfall/pkg/render/styles"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight for URLs and other values worth noticing.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	separator   = " · "
)

// =============================================================================
// Step Kinds
// =============================================================================

// kindStyles colors step kinds with the default chart theme, so the terminal
// table matches the rendered bars.
var kindStyles = newKindStyles(styles.DefaultTheme())

func newKindStyles(t styles.Theme) map[waterfall.Kind]lipgloss.Style {
	return map[waterfall.Kind]lipgloss.Style{
		waterfall.Positive: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Positive)),
		waterfall.Negative: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Negative)),
		waterfall.Total:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Total)).Bold(true),
	}
}

// kindStyle returns the style for k, falling back to StyleValue.
func kindStyle(k waterfall.Kind) lipgloss.Style {
	if s, ok := kindStyles[k]; ok {
		return s
	}
	return StyleValue
}

// =============================================================================
// Status Lines
// =============================================================================

// status writes human-oriented, one-line messages. Data meant for pipes
// (tables, JSON, paths from "cache path") goes to CLI.Out instead.
type status struct {
	w io.Writer
}

// status returns the printer for the CLI's status writer.
func (c *CLI) status() status {
	return status{w: c.Status}
}

func (s status) line(parts ...string) {
	fmt.Fprintln(s.w, strings.Join(parts, " "))
}

func (s status) success(format string, args ...any) {
	s.line(lipgloss.NewStyle().Foreground(colorGreen).Render(iconSuccess), fmt.Sprintf(format, args...))
}

func (s status) warning(format string, args ...any) {
	warn := lipgloss.NewStyle().Foreground(colorYellow)
	s.line(warn.Render(iconWarning), warn.Render(fmt.Sprintf(format, args...)))
}

func (s status) info(format string, args ...any) {
	s.line(lipgloss.NewStyle().Foreground(colorGray).Render(iconInfo), fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (s status) detail(format string, args ...any) {
	s.line(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (s status) file(path string) {
	s.line(" ", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func (s status) keyValue(key, value string) {
	s.line(styleKey.Render(key), StyleValue.Render(value))
}

// nextStep suggests a command to run.
func (s status) nextStep(description, cmd string) {
	s.line(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

// stats prints the size of a run and whether its result came from the cache.
func (s status) stats(points, steps int, cached bool) {
	origin := StyleDim.Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	s.line(" ", StyleDim.Render(fmt.Sprintf("%d points", points))+
		StyleDim.Render(separator)+
		StyleDim.Render(fmt.Sprintf("%d steps", steps))+
		StyleDim.Render(separator)+
		origin)
}
