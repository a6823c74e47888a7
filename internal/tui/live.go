package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/zoom"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// FollowRenderer prints plain-terminal frames of a running scenario. It
// observes runner steps and redraws at most frameRate times per second,
// so a headless run can be followed without the full TUI. A frameRate
// of 0 draws every step.
type FollowRenderer struct {
	out       io.Writer
	sensor    sim.Entity
	system    *zoom.System
	refHfov   float64
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
}

func NewFollowRenderer(out io.Writer, sensor sim.Entity, system *zoom.System, refHfov float64, frameRate int) *FollowRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &FollowRenderer{
		out:       out,
		sensor:    sensor,
		system:    system,
		refHfov:   refHfov,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

func (r *FollowRenderer) OnStep(info sim.UpdateInfo, w *sim.World) {
	if r.frameRate > 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	comp := w.CameraOf(r.sensor)
	if comp == nil {
		return
	}
	r.clear()
	r.drawWedge(comp.HorizontalFov)
	r.render(info, comp.HorizontalFov)
}

func (r *FollowRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *FollowRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *FollowRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *FollowRenderer) drawWedge(hfov float64) {
	ax, ay := width/2, height-2
	length := float64(height) - 4
	half := hfov / 2
	// Terminal cells are roughly twice as tall as wide; stretch x so
	// the wedge angle reads true.
	const aspect = 2.0
	left := -math.Pi/2 - half
	right := -math.Pi/2 + half

	lx := ax + int(length*math.Cos(left)*aspect)
	ly := ay + int(length*math.Sin(left))
	rx := ax + int(length*math.Cos(right)*aspect)
	ry := ay + int(length*math.Sin(right))
	r.line(ax, ay, lx, ly, '.')
	r.line(ax, ay, rx, ry, '.')

	step := 1.0 / (length * aspect)
	for a := left; a <= right; a += step {
		r.set(ax+int(length*math.Cos(a)*aspect), ay+int(length*math.Sin(a)), 'o')
	}
	r.set(ax, ay, '+')
}

func (r *FollowRenderer) render(info sim.UpdateInfo, hfov float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs\n", r.system.CameraName(), info.SimTime.Seconds()))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	z := 0.0
	if hfov > 0 {
		z = r.refHfov / hfov
	}
	b.WriteString(fmt.Sprintf("  phase=%s hfov=%.4f goal=%.4f zoom=%.2fx\n",
		r.system.Phase(), hfov, r.system.GoalHfov(), z))

	fmt.Fprint(r.out, b.String())
}

func (r *FollowRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *FollowRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
