package export

import (
	"fmt"
	"strings"

	"github.com/dirksavage88/camzoom/internal/metrics"
	"github.com/dirksavage88/camzoom/internal/viz"
)

// Braille dot-to-bit mapping, matching the canvas layout.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a braille canvas to SVG, one filled circle per
// lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG plots HFOV over time, with the goal curve dashed
// behind it from the first resolved goal onward.
func TrajectoryToSVG(samples []metrics.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	minT, maxT := samples[0].T, samples[0].T
	minY, maxY := samples[0].Hfov, samples[0].Hfov
	goalFrom := -1
	for i, smp := range samples {
		if smp.T < minT {
			minT = smp.T
		}
		if smp.T > maxT {
			maxT = smp.T
		}
		if smp.Hfov < minY {
			minY = smp.Hfov
		}
		if smp.Hfov > maxY {
			maxY = smp.Hfov
		}
		if smp.GoalHfov > 0 {
			if goalFrom == -1 {
				goalFrom = i
			}
			if smp.GoalHfov < minY {
				minY = smp.GoalHfov
			}
			if smp.GoalHfov > maxY {
				maxY = smp.GoalHfov
			}
		}
	}

	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	toX := func(t float64) float64 { return (t - minT) / rangeT * float64(width) }
	toY := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if goalFrom != -1 {
		sb.WriteString(`<path fill="none" stroke="#888888" stroke-width="1" stroke-dasharray="4 3" d="M`)
		for i := goalFrom; i < len(samples); i++ {
			smp := samples[i]
			if i == goalFrom {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(smp.T), toY(smp.GoalHfov)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(smp.T), toY(smp.GoalHfov)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(`<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`)
	for i, smp := range samples {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(smp.T), toY(smp.Hfov)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(smp.T), toY(smp.Hfov)))
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
