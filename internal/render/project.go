// Package render provides drawing backends for the scene: a raster backend
// built on golang.org/x/image and a recording backend.
package render

import (
	"math"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/viewport"
)

// arcSteps is the number of chords an arc is approximated with.
const arcSteps = 48

// Primitives is an outline in view coordinates. Arcs become polylines.
type Primitives struct {
	Dots      []geometry.Point
	Polylines [][]geometry.Point
	Arrows    []geometry.Segment
	Text      []string
}

// Project maps a world outline through the viewport.
func Project(o geometry.Outline, vp *viewport.Viewport) Primitives {
	var p Primitives
	for _, d := range o.Dots {
		p.Dots = append(p.Dots, vp.ToView(d))
	}
	for _, s := range o.Segments {
		p.Polylines = append(p.Polylines, []geometry.Point{vp.ToView(s.A), vp.ToView(s.B)})
	}
	for _, a := range o.Arrows {
		p.Arrows = append(p.Arrows, geometry.Segment{A: vp.ToView(a.A), B: vp.ToView(a.B)})
	}
	for _, arc := range o.Arcs {
		pts := arc.Sample(arcSteps)
		line := make([]geometry.Point, len(pts))
		for i, q := range pts {
			line[i] = vp.ToView(q)
		}
		p.Polylines = append(p.Polylines, line)
	}
	p.Text = o.Text
	return p
}

// Clip cuts s to the rectangle [minX,maxX]x[minY,maxY] (Liang-Barsky).
// ok is false when nothing is left.
func Clip(s geometry.Segment, minX, minY, maxX, maxY float64) (geometry.Segment, bool) {
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, s.A.X - minX},
		{dx, maxX - s.A.X},
		{-dy, s.A.Y - minY},
		{dy, maxY - s.A.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if math.Abs(p) < 1e-12 {
			if q < 0 {
				return geometry.Segment{}, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return geometry.Segment{}, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return geometry.Segment{}, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return geometry.Segment{
		A: geometry.Point{X: s.A.X + t0*dx, Y: s.A.Y + t0*dy},
		B: geometry.Point{X: s.A.X + t1*dx, Y: s.A.Y + t1*dy},
	}, true
}
