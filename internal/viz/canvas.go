package viz

import (
	"strings"
)

// Each braille cell holds 2x4 dots. brailleBit[y][x] is the bit of the dot
// at column x, row y within a cell, added to U+2800.
var brailleBit = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells addressed in dots: (Width*2) x
// (Height*4). Dots outside the grid are dropped.
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
		c.Grid[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return c
}

// Set lights the dot at (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Grid[y/4][x/2] |= brailleBit[y%4][x%2]
}

// Dot lights a 2x2 block with its top left at (x, y), big enough to read as
// one robot.
func (c *Canvas) Dot(x, y int) {
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

// DrawRect outlines the axis-aligned rectangle with corners (x0, y0) and
// (x1, y1), in either order.
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	x0, x1 = min(x0, x1), max(x0, x1)
	y0, y1 = min(y0, y1), max(y0, y1)
	for x := x0; x <= x1; x++ {
		c.Set(x, y0)
		c.Set(x, y1)
	}
	for y := y0; y <= y1; y++ {
		c.Set(x0, y)
		c.Set(x1, y)
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
