package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

// Canvas is a grid of braille cells. Each cell remembers the ink of the last
// dot set in it, so red and blue balls stay distinguishable.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y, ink int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = ink
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = 0
		}
	}
}

// FillDisc sets every sub-pixel of the disc inscribed in the d x d box whose
// top-left corner is (x, y).
func (c *Canvas) FillDisc(x, y, d float64, ink int) {
	if d <= 1 {
		c.Set(int(x), int(y), ink)
		return
	}
	r := d / 2
	cx, cy := x+r, y+r
	for py := int(y); py <= int(y+d); py++ {
		for px := int(x); px <= int(x+d); px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				c.Set(px, py, ink)
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

// Render colors each run of same-ink cells with styles[ink].
func (c *Canvas) Render(styles []lipgloss.Style) string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Ink[row][col] == c.Ink[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			if ink := c.Ink[row][start]; ink >= 0 && ink < len(styles) {
				run = styles[ink].Render(run)
			}
			b.WriteString(run)
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}
