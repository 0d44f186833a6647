package viz

import (
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// Braille cells hold 2x4 dots, numbered
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// on top of the blank pattern U+2800.
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot grid of Width x Height terminal cells, which is
// (2*Width) x (4*Height) dots.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: max(w, 1), Height: max(h, 1)}
	c.cells = make([][]rune, c.Height)
	for i := range c.cells {
		c.cells[i] = make([]rune, c.Width)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// Set lights the dot at (x, y); dots off the grid are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Line draws a Bresenham segment.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps simulation coordinates onto canvas dots. Center is drawn in
// the middle of the canvas and Extent metres span half of its shorter side.
type Viewport struct {
	Center vector.Vector
	Extent float64
}

// FitViewport centres on the central body (or the origin) and sizes the view
// to the farthest body, with a small margin.
func FitViewport(sys *celestial.System) Viewport {
	center := vector.Zero
	if c := sys.Central(); c != nil {
		center = c.Position
	}
	extent := 0.0
	for _, b := range sys.Bodies {
		extent = math.Max(extent, b.Position.Distance(center))
	}
	if extent == 0 {
		extent = celestial.AU
	}
	return Viewport{Center: center, Extent: extent * 1.1}
}

func (v Viewport) project(c *Canvas, p vector.Vector) (int, int) {
	w, h := c.Width*2, c.Height*4
	// Dots are treated as square.
	half := float64(min(w, h)) / 2
	scale := half / v.Extent
	rel := p.Sub(v.Center)
	x := int(math.Round(float64(w)/2 + rel.X*scale))
	y := int(math.Round(float64(h)/2 - rel.Y*scale))
	return x, y
}

// DrawSystem plots every visible body as a dot and, when trails is set, its
// recorded trail as connected segments.
func (c *Canvas) DrawSystem(sys *celestial.System, v Viewport, trails bool) {
	for _, b := range sys.Bodies {
		if !b.Visible {
			continue
		}
		if trails {
			pts := b.Trail().Points()
			for i := 1; i < len(pts); i++ {
				x0, y0 := v.project(c, pts[i-1])
				x1, y1 := v.project(c, pts[i])
				c.Line(x0, y0, x1, y1)
			}
		}
		x, y := v.project(c, b.Position)
		c.Set(x, y)
		c.Set(x+1, y)
		c.Set(x, y+1)
		c.Set(x+1, y+1)
	}
}
