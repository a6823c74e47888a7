package viz

import "math"

// DrawWedge draws a top-down field-of-view wedge: apex at (ax, ay), two
// edge rays of the given length opening hfov radians around the up
// direction, and an arc joining the ray tips.
func DrawWedge(c *Canvas, ax, ay int, length, hfov float64) {
	half := hfov / 2
	left := -math.Pi/2 - half
	right := -math.Pi/2 + half
	lx := ax + int(length*math.Cos(left))
	ly := ay + int(length*math.Sin(left))
	rx := ax + int(length*math.Cos(right))
	ry := ay + int(length*math.Sin(right))
	c.DrawLine(ax, ay, lx, ly)
	c.DrawLine(ax, ay, rx, ry)
	c.DrawArc(ax, ay, length, left, right)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(ax+dx, ay+dy)
		}
	}
}

// DrawGoalTicks marks the goal FOV as two short radial ticks crossing
// the arc, so a converging wedge has a visible target.
func DrawGoalTicks(c *Canvas, ax, ay int, length, goalHfov float64) {
	half := goalHfov / 2
	for _, a := range []float64{-math.Pi/2 - half, -math.Pi/2 + half} {
		inner := length * 0.88
		x0 := ax + int(inner*math.Cos(a))
		y0 := ay + int(inner*math.Sin(a))
		x1 := ax + int((length+2)*math.Cos(a))
		y1 := ay + int((length+2)*math.Sin(a))
		c.DrawLine(x0, y0, x1, y1)
	}
}

// RenderWedge clears the canvas and draws the current FOV wedge, with
// goal ticks when the goal differs from the current angle.
func RenderWedge(c *Canvas, hfov, goalHfov float64) {
	c.Clear()
	ax, ay := c.Width, c.Height*4-6
	length := float64(c.Height*4) * 0.82
	DrawWedge(c, ax, ay, length, hfov)
	if goalHfov > 0 && math.Abs(goalHfov-hfov) > 1e-9 {
		DrawGoalTicks(c, ax, ay, length, goalHfov)
	}
}

// WedgeSnapshot renders a one-shot wedge picture, sized for export.
func WedgeSnapshot(hfov, goalHfov float64, w, h int) *Canvas {
	c := NewCanvas(w, h)
	RenderWedge(c, hfov, goalHfov)
	return c
}
