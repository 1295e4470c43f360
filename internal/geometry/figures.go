package geometry

import (
	"fmt"
	"math"
)

// Point, as a figure, is a dot labelled from above.

func (p Point) Kind() Kind { return KindPoint }

func (p Point) Outline() Outline {
	return Outline{Dots: []Point{p}}
}

func (p Point) Label(name string) (Label, bool) {
	if name == "" {
		return Label{}, false
	}
	return Label{Text: name, At: p, Anchor: AnchorSouth}, true
}

// NewSegment builds the segment (x1,y1)-(x2,y2).
func NewSegment(x1, y1, x2, y2 float64) Segment {
	return Segment{A: Point{x1, y1}, B: Point{x2, y2}}
}

func (s Segment) Kind() Kind { return KindSegment }

func (s Segment) Outline() Outline {
	return Outline{Segments: []Segment{s}}
}

// Label sits at the midpoint, rotated along the segment.
func (s Segment) Label(name string) (Label, bool) {
	if name == "" {
		return Label{}, false
	}
	return Label{Text: name, At: s.Midpoint(), Rotation: s.Direction(), Anchor: AnchorSouth}, true
}

// Line is the implicit line A*x + B*y + C = 0 with (A, B) of unit length.
type Line struct {
	A, B, C float64
}

// NewLine normalizes the coefficients so that the normal (a, b) has unit
// length.
func NewLine(a, b, c float64) (Line, error) {
	n := math.Hypot(a, b)
	if n < Eps {
		return Line{}, fmt.Errorf("line %g %g %g: zero normal: %w", a, b, c, ErrDegenerate)
	}
	return Line{A: a / n, B: b / n, C: c / n}, nil
}

// Vertical reports whether the line is parallel to the Y axis.
func (l Line) Vertical() bool {
	return math.Abs(l.B) < Eps
}

// Segment returns the part of the line inside the HalfExtent box.
func (l Line) Segment() Segment {
	if l.Vertical() {
		x := -l.C / l.A
		return Segment{A: Point{x, -HalfExtent}, B: Point{x, HalfExtent}}
	}
	return Segment{
		A: Point{-HalfExtent, (-l.C + HalfExtent*l.A) / l.B},
		B: Point{HalfExtent, (-l.C - HalfExtent*l.A) / l.B},
	}
}

func (l Line) Kind() Kind { return KindLine }

func (l Line) Outline() Outline {
	return Outline{Segments: []Segment{l.Segment()}}
}

func (l Line) Label(string) (Label, bool) { return Label{}, false }

// Ray starts at Origin and runs along the unit direction Dir.
type Ray struct {
	Origin Point
	Dir    Point
}

// NewRay normalizes the direction (dx, dy).
func NewRay(x, y, dx, dy float64) (Ray, error) {
	n := math.Hypot(dx, dy)
	if n < Eps {
		return Ray{}, fmt.Errorf("ray at (%g, %g): zero direction: %w", x, y, ErrDegenerate)
	}
	return Ray{Origin: Point{x, y}, Dir: Point{dx / n, dy / n}}, nil
}

// Segment extends the ray by HalfExtent along its direction.
func (r Ray) Segment() Segment {
	return Segment{A: r.Origin, B: r.Origin.Add(r.Dir.Mul(HalfExtent))}
}

func (r Ray) Kind() Kind { return KindRay }

func (r Ray) Outline() Outline {
	return Outline{Segments: []Segment{r.Segment()}}
}

func (r Ray) Label(name string) (Label, bool) {
	if name == "" {
		return Label{}, false
	}
	return Label{Text: name, At: r.Origin, Rotation: r.Dir.Angle(), Anchor: AnchorSouthWest}, true
}

// Vector is an arrow from From to To.
type Vector struct {
	From Point
	To   Point
}

// NewVector accepts a zero-length vector; it is drawn as a bare head.
func NewVector(x1, y1, x2, y2 float64) Vector {
	return Vector{From: Point{x1, y1}, To: Point{x2, y2}}
}

func (v Vector) Len() float64 { return v.To.Sub(v.From).Len() }

// Angle is the direction of the vector in degrees.
func (v Vector) Angle() float64 { return v.To.Sub(v.From).Angle() }

func (v Vector) Kind() Kind { return KindVector }

func (v Vector) Outline() Outline {
	return Outline{Arrows: []Segment{{A: v.From, B: v.To}}}
}

func (v Vector) Label(string) (Label, bool) { return Label{}, false }

// Angle is made of the arms Apex->P1 and Apex->P2, optionally joined by an
// arc.
type Angle struct {
	Apex    Point
	P1      Point
	P2      Point
	WithArc bool
}

// NewAngle accepts zero-length arms. Such an arm points along 0 degrees and
// leaves an arc of zero radius.
func NewAngle(apex, p1, p2 Point, withArc bool) Angle {
	return Angle{Apex: apex, P1: p1, P2: p2, WithArc: withArc}
}

// Arms returns the two vectors of the angle.
func (a Angle) Arms() [2]Vector {
	return [2]Vector{{From: a.Apex, To: a.P1}, {From: a.Apex, To: a.P2}}
}

// Arc returns the minor arc between the arms. Its radius is half of the
// shorter arm. When the counter-clockwise sweep from the first arm to the
// second exceeds 180 degrees the ends are swapped, so the drawn arc never
// exceeds 180 degrees.
func (a Angle) Arc() Arc {
	arms := a.Arms()
	start, end := arms[0].Angle(), arms[1].Angle()
	if NormalizeDegrees(end-start) > 180 {
		start, end = end, start
	}
	return Arc{
		Center: a.Apex,
		Radius: math.Min(arms[0].Len(), arms[1].Len()) / 2,
		Start:  start,
		End:    end,
	}
}

func (a Angle) Kind() Kind { return KindAngle }

func (a Angle) Outline() Outline {
	arms := a.Arms()
	o := Outline{Arrows: []Segment{
		{A: arms[0].From, B: arms[0].To},
		{A: arms[1].From, B: arms[1].To},
	}}
	if a.WithArc {
		o.Arcs = []Arc{a.Arc()}
	}
	return o
}

func (a Angle) Label(string) (Label, bool) { return Label{}, false }

// Polygon is a closed chain of vertices. Two vertices give a doubled
// segment.
type Polygon struct {
	Vertices []Point
}

func NewPolygon(vertices []Point) (Polygon, error) {
	if len(vertices) < 2 {
		return Polygon{}, fmt.Errorf("polygon with %d vertices: %w", len(vertices), ErrDegenerate)
	}
	vs := make([]Point, len(vertices))
	copy(vs, vertices)
	return Polygon{Vertices: vs}, nil
}

// Edges returns one segment per consecutive vertex pair, closing edge last.
func (p Polygon) Edges() []Segment {
	edges := make([]Segment, 0, len(p.Vertices))
	for i := range p.Vertices {
		edges = append(edges, Segment{A: p.Vertices[i], B: p.Vertices[(i+1)%len(p.Vertices)]})
	}
	return edges
}

func (p Polygon) Kind() Kind { return KindPolygon }

func (p Polygon) Outline() Outline {
	return Outline{Segments: p.Edges()}
}

func (p Polygon) Label(string) (Label, bool) { return Label{}, false }

// Text is the multi-line overlay annotation.
type Text struct {
	Lines []string
}

func (t Text) Kind() Kind { return KindText }

func (t Text) Outline() Outline {
	return Outline{Text: t.Lines}
}

func (t Text) Label(string) (Label, bool) { return Label{}, false }
