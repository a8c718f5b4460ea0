package viz

import (
	"math"
	"strings"
)

// Braille patterns are 2x4 dots per cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
var pixelMap = [4][2]rune{
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
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels; out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Plane selects the two Cartesian axes a projection keeps.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) String() string {
	return [...]string{"xy", "xz", "yz"}[p]
}

func (p Plane) axes() (int, int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneYZ:
		return 1, 2
	default:
		return 0, 1
	}
}

// DrawAtoms projects positions onto plane, wrapping them into the box and
// scaling the box to fill the canvas.
func (c *Canvas) DrawAtoms(positions [][3]float64, box [3]float64, plane Plane) {
	u, v := plane.axes()
	if box[u] <= 0 || box[v] <= 0 {
		return
	}
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	for _, p := range positions {
		x := p[u] - box[u]*math.Floor(p[u]/box[u])
		y := p[v] - box[v]*math.Floor(p[v]/box[v])
		c.Set(int(x/box[u]*w+0.5), int(h-y/box[v]*h+0.5))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
