// Package render holds the terminal styles used when patch lines are shown
// interactively.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette bundles the styles applied to the different unified-diff line
// shapes.
type Palette struct {
	Header  lipgloss.Style
	Add     lipgloss.Style
	Remove  lipgloss.Style
	Context lipgloss.Style
	Marker  lipgloss.Style
	plain   bool
}

// NewPalette builds a palette for the detected terminal color profile. On a
// monochrome terminal lines pass through unstyled.
func NewPalette() Palette {
	if termenv.ColorProfile() == termenv.Ascii {
		return Palette{plain: true}
	}
	return Palette{
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		Add:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Remove:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Context: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
	}
}

// Line styles a single raw patch line according to its leading marker.
func (p Palette) Line(line string) string {
	if p.plain || line == "" {
		return line
	}
	switch {
	case strings.HasPrefix(line, "@@ "):
		return p.Header.Render(line)
	case strings.HasPrefix(line, `\ `):
		return p.Marker.Render(line)
	case line[0] == '+':
		return p.Add.Render(line)
	case line[0] == '-':
		return p.Remove.Render(line)
	default:
		return p.Context.Render(line)
	}
}

// Lines styles a sequence of raw patch lines.
func (p Palette) Lines(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Line(line))
	}
	return b.String()
}
