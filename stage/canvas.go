package stage

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/cadence"
)

// Canvas is a character grid the figure is drawn onto. Points arrive in
// viewBox units and are scaled to cells; terminal cells are roughly twice as
// tall as they are wide, so the default size keeps that aspect.
type Canvas struct {
	width  int
	height int
	cells  [][]rune
	sx, sy float64
}

const (
	DefaultCanvasWidth  = 48
	DefaultCanvasHeight = 32
)

// NewCanvas allocates a width x height grid mapped onto the figure viewBox.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([][]rune, height),
		sx:     float64(width) / cadence.ViewBoxWidth,
		sy:     float64(height) / cadence.ViewBoxHeight,
	}
	for i := range c.cells {
		c.cells[i] = make([]rune, width)
	}
	c.Clear()
	return c
}

// Size returns the grid dimensions in cells.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for i := range row {
			row[i] = ' '
		}
	}
}

// At returns the rune in a cell, or 0 outside the grid.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.cells[y][x]
}

// Set writes a rune into a cell. Out-of-grid writes are dropped.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

func (c *Canvas) cell(p r2.Vec) (int, int) {
	return int(math.Round(p.X * c.sx)), int(math.Round(p.Y * c.sy))
}

// Line draws a viewBox segment with Bresenham's algorithm.
func (c *Canvas) Line(a, b r2.Vec, r rune) {
	x0, y0 := c.cell(a)
	x1, y1 := c.cell(b)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	stepX, stepY := 1, 1
	if x0 > x1 {
		stepX = -1
	}
	if y0 > y1 {
		stepY = -1
	}

	err := dx + dy
	for {
		c.Set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += stepX
		}
		if e2 <= dx {
			err += dx
			y0 += stepY
		}
	}
}

// Circle outlines a viewBox circle.
func (c *Canvas) Circle(center r2.Vec, radius float64, r rune) {
	steps := int(2*math.Pi*radius*math.Max(c.sx, c.sy)) + 8
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x, y := c.cell(r2.Vec{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)})
		c.Set(x, y, r)
	}
}

// HLine fills the cells under a horizontal viewBox span.
func (c *Canvas) HLine(x0, x1, y float64, r rune) {
	a, row := c.cell(r2.Vec{X: x0, Y: y})
	b, _ := c.cell(r2.Vec{X: x1, Y: y})
	if a > b {
		a, b = b, a
	}
	for x := a; x <= b; x++ {
		c.Set(x, row, r)
	}
}

// DrawFrame renders the figure: shadow, then torso and limbs, then head.
// Shadow width follows ShadowScale and its glyph darkens with opacity. Idle
// frames are drawn standing.
func (c *Canvas) DrawFrame(f cadence.Frame) {
	f = f.Drawn()
	half := cadence.ShadowRadius * f.Signals.ShadowScale
	shade := '-'
	if f.Signals.ShadowOpacity >= 0.45 {
		shade = '='
	}
	c.HLine(cadence.ViewBoxWidth/2-half, cadence.ViewBoxWidth/2+half, cadence.GroundY, shade)

	for _, seg := range f.Segments() {
		c.Line(seg.A, seg.B, '#')
	}
	c.Circle(f.HeadCenter(), cadence.HeadRadius, 'o')
}

// String joins the rows, trimming trailing blanks.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(string(row), " "))
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
