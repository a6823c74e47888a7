package viz

import (
	"math"
	"strings"
)

// A braille cell covers 2x4 sub-pixels. Each dot maps to one bit of the
// pattern added to the base rune.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a terminal pixel buffer with braille sub-cell resolution: a
// Width x Height character grid addressable as (Width*2) x (Height*4)
// pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
	return c
}

// Set turns on the pixel at (x, y) in sub-pixel coordinates. Points
// outside the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= dotBits[y%4][x%2]
}

// Unset turns off the pixel at (x, y).
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= dotBits[y%4][x%2]
}

// Clear resets every cell to the empty braille rune.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine rasterizes a segment with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawArc rasterizes the arc of the circle centered at (cx, cy) with
// the given radius, from angle a0 to a1 in radians. Positive angles
// turn clockwise on screen because y grows downward.
func (c *Canvas) DrawArc(cx, cy int, radius, a0, a1 float64) {
	if radius <= 0 {
		c.Set(cx, cy)
		return
	}
	if a1 < a0 {
		a0, a1 = a1, a0
	}
	// Step fine enough that neighboring dots touch.
	step := 1.0 / radius
	for a := a0; a < a1; a += step {
		c.Set(cx+int(radius*math.Cos(a)), cy+int(radius*math.Sin(a)))
	}
	c.Set(cx+int(radius*math.Cos(a1)), cy+int(radius*math.Sin(a1)))
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
