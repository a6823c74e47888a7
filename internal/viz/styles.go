package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dirksavage88/camzoom/internal/zoom"
)

var (
	statusActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	statusIdle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	statusTorn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// PhaseLabel renders a colored badge for the controller phase.
func PhaseLabel(p zoom.Phase) string {
	label := strings.ToUpper(p.String())
	switch p {
	case zoom.PhaseActive:
		return statusActive.Render(label)
	case zoom.PhaseTornDown:
		return statusTorn.Render(label)
	default:
		return statusIdle.Render(label)
	}
}

// ZoomBar renders the effective zoom as a bar between 1x and max.
func ZoomBar(z, max float64, width int) string {
	if max <= 1 || width <= 0 {
		return ""
	}
	frac := (z - 1) / (max - 1)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
