package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/vec"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

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
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) dots; anything outside is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// Disc lights every dot within r of (x, y).
func (c *Canvas) Disc(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(x+dx, y+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps plane coordinates onto a canvas: Center lands in the middle
// and Span world units fit the shorter side.
type Viewport struct {
	Center vec.Vec2
	Span   float64
}

// Fit returns a viewport that contains every finite point with a margin.
func Fit(points ...vec.Vec2) Viewport {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !p.IsFinite() {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if math.IsInf(minX, 1) {
		return Viewport{Span: 1}
	}
	span := 1.2 * math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	return Viewport{Center: vec.New((minX+maxX)/2, (minY+maxY)/2), Span: span}
}

// Project returns the dot for p on c. y grows upwards in the plane and
// downwards on screen. Terminal cells are about twice as tall as wide, so a
// dot is square.
func (v Viewport) Project(c *Canvas, p vec.Vec2) (int, int) {
	w, h := float64(c.Width*2), float64(c.Height*4)
	scale := math.Min(w, h) / v.Span
	d := p.Sub(v.Center)
	return clampDot(w/2 + d.X*scale), clampDot(h/2 - d.Y*scale)
}

const maxDot = 1 << 20

func clampDot(f float64) int {
	return int(math.Round(math.Max(-maxDot, math.Min(maxDot, f))))
}

// near reports whether (x, y) is within one canvas size of the visible area.
func (c *Canvas) near(x, y int) bool {
	w, h := c.Width*2, c.Height*4
	return x > -w && x < 2*w && y > -h && y < 2*h
}

// Zoom scales the span by f; f < 1 zooms in.
func (v Viewport) Zoom(f float64) Viewport {
	v.Span *= f
	return v
}

// DrawTrack joins consecutive points of track with lines. Non-finite points
// break the line.
func (c *Canvas) DrawTrack(v Viewport, track []vec.Vec2) {
	var px, py int
	have := false
	for _, p := range track {
		if !p.IsFinite() {
			have = false
			continue
		}
		x, y := v.Project(c, p)
		if have && c.near(px, py) && c.near(x, y) {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, have = x, y, true
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
