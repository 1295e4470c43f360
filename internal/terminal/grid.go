// Package terminal shows a deck in a text terminal through tcell.
package terminal

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/render"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/viewport"
)

// A cell is two view units tall, so the view keeps roughly square units.
const cellHeight = 2

type item struct {
	id      scene.ID
	style   tcell.Style
	view    render.Primitives
	label   string
	labelAt geometry.Point
	anchor  geometry.Anchor
	isLabel bool
}

// Grid is a scene backend that paints on a tcell screen. The bottom row is
// left to Decorate.
type Grid struct {
	screen tcell.Screen
	next   scene.ID
	items  map[scene.ID]*item
	// Decorate runs after the shapes are painted and before Show.
	Decorate func()
}

func NewGrid(screen tcell.Screen) *Grid {
	return &Grid{screen: screen, items: make(map[scene.ID]*item)}
}

// ViewSize returns the view extent matching the current screen.
func (g *Grid) ViewSize() (float64, float64) {
	w, h := g.screen.Size()
	return float64(w), float64(cellHeight * (h - 1))
}

func (g *Grid) Draw(s *scene.Shape, vp *viewport.Viewport) (scene.Handle, error) {
	c, err := render.ParseColor(s.Color)
	if err != nil {
		return scene.Handle{}, err
	}
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))

	g.next++
	h := scene.Handle{Geometry: g.next}
	g.items[g.next] = &item{id: g.next, style: style, view: render.Project(s.Figure.Outline(), vp)}

	if l, ok := s.Label(); ok {
		g.next++
		h.Label = g.next
		g.items[g.next] = &item{
			id:      g.next,
			style:   style,
			label:   l.Text,
			labelAt: vp.ToView(l.At),
			anchor:  l.Anchor,
			isLabel: true,
		}
	}
	return h, nil
}

func (g *Grid) Undraw(h scene.Handle) error {
	for _, id := range []scene.ID{h.Geometry, h.Label} {
		if id == 0 {
			continue
		}
		if _, ok := g.items[id]; !ok {
			return fmt.Errorf("undraw of unknown handle %d", id)
		}
		delete(g.items, id)
	}
	return nil
}

func (g *Grid) Refresh() error {
	g.screen.Clear()

	items := make([]*item, 0, len(g.items))
	for _, it := range g.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].id < items[j].id })

	for _, it := range items {
		if it.isLabel {
			g.paintLabel(it)
		} else {
			g.paint(it)
		}
	}
	if g.Decorate != nil {
		g.Decorate()
	}
	g.screen.Show()
	return nil
}

func (g *Grid) rows() int {
	_, h := g.screen.Size()
	return h - 1
}

func (g *Grid) set(col, row int, r rune, style tcell.Style) {
	w, _ := g.screen.Size()
	if col < 0 || row < 0 || col >= w || row >= g.rows() {
		return
	}
	g.screen.SetContent(col, row, r, nil, style)
}

// Text writes s from (col, row), clipped to the drawing area.
func (g *Grid) Text(col, row int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		g.set(col+i, row, r, style)
	}
}

func cell(p geometry.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / cellHeight))
}

func (g *Grid) paint(it *item) {
	for _, line := range it.view.Polylines {
		for i := 1; i < len(line); i++ {
			g.line(geometry.Segment{A: line[i-1], B: line[i]}, it.style)
		}
	}
	for _, a := range it.view.Arrows {
		g.line(a, it.style)
		col, row := cell(a.B)
		g.set(col, row, arrowHead(a), it.style)
	}
	for _, d := range it.view.Dots {
		col, row := cell(d)
		g.set(col, row, '●', it.style)
	}
	for i, text := range it.view.Text {
		g.Text(0, i, text, it.style.Bold(true))
	}
}

func (g *Grid) paintLabel(it *item) {
	col, row := cell(it.labelAt)
	n := len([]rune(it.label))
	switch it.anchor {
	case geometry.AnchorSouth:
		g.Text(col-n/2, row-1, it.label, it.style)
	case geometry.AnchorSouthWest:
		g.Text(col+1, row-1, it.label, it.style)
	default:
		g.Text(col-n/2, row, it.label, it.style)
	}
}

// lineRune picks a glyph for the slope of s in cell space.
func lineRune(s geometry.Segment) rune {
	d := s.B.Sub(s.A)
	a := geometry.NormalizeDegrees(geometry.Degrees(math.Atan2(d.Y/cellHeight, d.X)))
	if a >= 180 {
		a -= 180
	}
	switch {
	case a < 22.5 || a >= 157.5:
		return '-'
	case a < 67.5:
		return '\\'
	case a < 112.5:
		return '|'
	default:
		return '/'
	}
}

func arrowHead(s geometry.Segment) rune {
	d := s.B.Sub(s.A)
	if math.Abs(d.X) >= math.Abs(d.Y)/cellHeight {
		if d.X >= 0 {
			return '>'
		}
		return '<'
	}
	if d.Y >= 0 {
		return 'v'
	}
	return '^'
}

// line rasterizes s with Bresenham over cells after clipping it to the
// drawing area.
func (g *Grid) line(s geometry.Segment, style tcell.Style) {
	w, _ := g.screen.Size()
	s, ok := render.Clip(s, 0, 0, float64(w)-1e-9, float64(g.rows()*cellHeight)-1e-9)
	if !ok {
		return
	}
	r := lineRune(s)

	x0, y0 := cell(s.A)
	x1, y1 := cell(s.B)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		g.set(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
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

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
