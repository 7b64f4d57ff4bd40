package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Braille cells hold a 2x4 dot grid:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type cell struct {
	r     rune
	color string // "" means default foreground
	text  bool   // overlay text, not braille
}

// Canvas is a coloured braille raster. Pixel coordinates run over
// (Width*2) x (Height*4) sub-pixels; each cell keeps the colour of the last
// pixel drawn into it.
type Canvas struct {
	Width, Height int
	grid          [][]cell
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{Width: w, Height: h, grid: make([][]cell, h)}
	for i := range c.grid {
		c.grid[i] = make([]cell, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = cell{r: brailleBlank}
		}
	}
}

func (c *Canvas) at(x, y int) (*cell, rune) {
	if x < 0 || y < 0 {
		return nil, 0
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return nil, 0
	}
	return &c.grid[row][col], pixelMap[y%4][x%2]
}

// Set lights the sub-pixel (x, y) in color.
func (c *Canvas) Set(x, y int, color colorful.Color) {
	cl, bit := c.at(x, y)
	if cl == nil || cl.text {
		return
	}
	cl.r |= bit
	cl.color = color.Clamped().Hex()
}

// SetIfEmpty lights (x, y) only when its cell has nothing drawn yet.
func (c *Canvas) SetIfEmpty(x, y int, color colorful.Color) {
	cl, _ := c.at(x, y)
	if cl == nil || cl.r != brailleBlank {
		return
	}
	c.Set(x, y, color)
}

// Lit reports whether sub-pixel (x, y) is on.
func (c *Canvas) Lit(x, y int) bool {
	cl, bit := c.at(x, y)
	return cl != nil && cl.r&bit != 0 && !cl.text
}

// Text writes s starting at cell (col, row), clipped to the canvas.
func (c *Canvas) Text(col, row int, s string, color string) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 {
			continue
		}
		if x >= c.Width {
			break
		}
		c.grid[row][x] = cell{r: r, color: color, text: true}
	}
}

// FillCircle draws a disc of radius r sub-pixels. shade picks the colour of
// each pixel from its offset on the unit disc.
func (c *Canvas) FillCircle(cx, cy, r float64, shade func(u, v float64) colorful.Color) {
	if r < 0.5 {
		c.Set(int(cx), int(cy), shade(0, 0))
		return
	}
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			u := (float64(x) + 0.5 - cx) / r
			v := (float64(y) + 0.5 - cy) / r
			if u*u+v*v > 1 {
				continue
			}
			c.Set(x, y, shade(u, v))
		}
	}
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with each run of same-coloured cells styled once.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].color == row[start].color {
				continue
			}
			run := make([]rune, 0, j-start)
			for _, cl := range row[start:j] {
				run = append(run, cl.r)
			}
			if color := row[start].color; color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			start = j
		}
	}
	return b.String()
}
