// Package term draws mind-map scenes on a terminal cell grid.
//
// Nodes become box-drawing rectangles (rounded for stages, double-lined for
// the selected stage, dotted for children) and connectors are plotted on a
// braille sub-grid of 2x4 dots per cell, so diagonal child edges stay
// readable at any zoom. Colours come from the scene and are applied with
// lipgloss when [Canvas.Styled] is used.
//
// One cell stands for [CellWidth] x [CellHeight] screen pixels. Hosts size
// the viewport with [PixelSize] and map mouse cells back with [CellCenter].
package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
)

// Screen pixels per terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Braille dots per cell.
const (
	dotsX = 2
	dotsY = 4
)

// PixelSize returns the viewport size in pixels of a cols x rows terminal.
func PixelSize(cols, rows int) (float64, float64) {
	return float64(cols * CellWidth), float64(rows * CellHeight)
}

// CellCenter returns the pixel at the centre of a cell.
func CellCenter(col, row int) (float64, float64) {
	return float64(col*CellWidth) + CellWidth/2, float64(row*CellHeight) + CellHeight/2
}

type cell struct {
	r     rune // 0 is the trailing half of a wide rune
	color string
	bold  bool
}

// Canvas is a rendered grid of cells.
type Canvas struct {
	cols, rows int
	cells      [][]cell
	dots       [][]uint8
	dotColor   [][]string
}

func newCanvas(cols, rows int) *Canvas {
	cols, rows = max(0, cols), max(0, rows)
	c := &Canvas{cols: cols, rows: rows}
	c.cells = make([][]cell, rows)
	c.dots = make([][]uint8, rows)
	c.dotColor = make([][]string, rows)
	for y := range rows {
		c.cells[y] = make([]cell, cols)
		c.dots[y] = make([]uint8, cols)
		c.dotColor[y] = make([]string, cols)
		for x := range cols {
			c.cells[y][x].r = ' '
		}
	}
	return c
}

// Size returns the grid size in cells.
func (c *Canvas) Size() (int, int) { return c.cols, c.rows }

// At returns the rune shown in a cell, or ' ' outside the grid.
func (c *Canvas) At(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return ' '
	}
	return c.glyph(col, row)
}

func (c *Canvas) glyph(col, row int) rune {
	cl := c.cells[row][col]
	if cl.r != ' ' {
		return cl.r
	}
	if m := c.dots[row][col]; m != 0 {
		return rune(0x2800 + int(m))
	}
	return ' '
}

func (c *Canvas) style(col, row int) (string, bool) {
	cl := c.cells[row][col]
	if cl.r != ' ' {
		return cl.color, cl.bold
	}
	if c.dots[row][col] != 0 {
		return c.dotColor[row][col], false
	}
	return "", false
}

// Lines returns the grid as plain text rows.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	var sb strings.Builder
	for y := range c.rows {
		sb.Reset()
		for x := range c.cols {
			if r := c.glyph(x, y); r != 0 {
				sb.WriteRune(r)
			}
		}
		out[y] = sb.String()
	}
	return out
}

// String returns the grid as plain text.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// Styled returns the grid with scene colours applied. Runs of cells sharing
// a style are rendered together.
func (c *Canvas) Styled() string {
	lines := make([]string, c.rows)
	var row, run strings.Builder
	for y := range c.rows {
		row.Reset()
		run.Reset()
		curColor, curBold := "", false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if curColor == "" && !curBold {
				row.WriteString(run.String())
			} else {
				st := lipgloss.NewStyle().Bold(curBold)
				if curColor != "" {
					st = st.Foreground(lipgloss.Color(curColor))
				}
				row.WriteString(st.Render(run.String()))
			}
			run.Reset()
		}
		for x := range c.cols {
			r := c.glyph(x, y)
			if r == 0 {
				continue
			}
			col, bold := c.style(x, y)
			if col != curColor || bold != curBold {
				flush()
				curColor, curBold = col, bold
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = row.String()
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) set(col, row int, r rune, color string, bold bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] = cell{r: r, color: color, bold: bold}
}

// clear blanks a cell, dots included.
func (c *Canvas) clear(col, row int) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] = cell{r: ' '}
	c.dots[row][col] = 0
}

// setDot sets one braille dot at sub-cell coordinates.
func (c *Canvas) setDot(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/dotsX, mx%dotsX
	cy, ry := my/dotsY, my%dotsY
	if cx >= c.cols || cy >= c.rows {
		return
	}
	var bit uint8
	if rx == 0 {
		bit = [dotsY]uint8{0x01, 0x02, 0x04, 0x40}[ry]
	} else {
		bit = [dotsY]uint8{0x08, 0x10, 0x20, 0x80}[ry]
	}
	c.dots[cy][cx] |= bit
	c.dotColor[cy][cx] = color
}

// line plots a Bresenham line on the dot grid. A positive dash leaves gaps
// of that many dots between dashes of the same length.
func (c *Canvas) line(x0, y0, x1, y1, dash int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for step := 0; ; step++ {
		if dash <= 0 || (step/dash)%2 == 0 {
			c.setDot(x0, y0, color)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// Scene drawing
// =============================================================================

type border struct{ tl, tr, bl, br, h, v rune }

var (
	stageBorder    = border{'╭', '╮', '╰', '╯', '─', '│'}
	selectedBorder = border{'╔', '╗', '╚', '╝', '═', '║'}
	childBorder    = border{'╭', '╮', '╰', '╯', '┄', '┆'}
)

// maxDots bounds Bresenham runs so a deep zoom cannot stall a frame.
const maxDots = 1 << 16

// Render draws s under t onto a cols x rows grid.
func Render(s *layout.Scene, t viewport.Transform, cols, rows int) *Canvas {
	c := newCanvas(cols, rows)
	if s == nil {
		return c
	}

	for _, e := range s.Edges {
		x1, y1 := t.ToScreen(e.X1, e.Y1)
		x2, y2 := t.ToScreen(e.X2, e.Y2)
		mx1, my1 := toDots(x1, y1)
		mx2, my2 := toDots(x2, y2)
		if abs(mx2-mx1)+abs(my2-my1) > maxDots {
			continue
		}
		dash := 0
		if e.Kind.Dashed() {
			dash = 2
		}
		c.line(mx1, my1, mx2, my2, dash, e.Color)
	}

	for _, n := range s.Nodes {
		c.node(n, t, n.ID == s.Selected)
	}
	return c
}

func toDots(px, py float64) (int, int) {
	return int(math.Floor(px / (CellWidth / dotsX))), int(math.Floor(py / (CellHeight / dotsY)))
}

func (c *Canvas) node(n layout.Node, t viewport.Transform, selected bool) {
	sx0, sy0 := t.ToScreen(n.X, n.Y)
	sx1, sy1 := t.ToScreen(n.X+n.Width, n.Y+n.Height)
	x0, y0 := int(math.Floor(sx0/CellWidth)), int(math.Floor(sy0/CellHeight))
	x1, y1 := int(math.Floor(sx1/CellWidth)), int(math.Floor(sy1/CellHeight))
	if x1 < 0 || y1 < 0 || x0 >= c.cols || y0 >= c.rows {
		return
	}

	b, color, bold := childBorder, n.Color, false
	if n.IsStage() {
		b = stageBorder
		if selected {
			b, bold = selectedBorder, true
		}
	}

	if x1-x0 < 1 || y1-y0 < 1 {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c.set(x, y, '■', color, bold)
			}
		}
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, b.h, color, bold)
		c.set(x, y1, b.h, color, bold)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, b.v, color, bold)
		c.set(x1, y, b.v, color, bold)
		for x := x0 + 1; x < x1; x++ {
			c.clear(x, y)
		}
	}
	c.set(x0, y0, b.tl, color, bold)
	c.set(x1, y0, b.tr, color, bold)
	c.set(x0, y1, b.bl, color, bold)
	c.set(x1, y1, b.br, color, bold)

	c.label(n, x0+1, y0+1, x1-x0-1, y1-y0-1, bold)
}

// label centres the node's wrapped lines in the box interior. When the box is
// too short for every line they are joined and truncated onto the middle row.
func (c *Canvas) label(n layout.Node, x, y, w, h int, bold bool) {
	if w <= 0 {
		return
	}
	lines := make([]string, 0, len(n.Lines))
	for _, l := range n.Lines {
		lines = append(lines, l.Text)
	}
	if len(lines) == 0 && n.Label != "" {
		lines = []string{n.Label}
	}
	if len(lines) == 0 {
		return
	}
	if h <= 0 {
		h = 1
		y--
	}
	if len(lines) > h {
		lines = []string{strings.Join(lines, " ")}
	}

	top := y + (h-len(lines))/2
	for i, text := range lines {
		text = runewidth.Truncate(text, w, "…")
		col := x + (w-runewidth.StringWidth(text))/2
		for _, r := range text {
			rw := runewidth.RuneWidth(r)
			c.set(col, top+i, r, "", bold)
			for k := 1; k < rw; k++ {
				c.set(col+k, top+i, 0, "", bold)
			}
			col += max(1, rw)
		}
	}
}
