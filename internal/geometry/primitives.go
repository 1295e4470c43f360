// Package geometry holds the value types of the construction language:
// points, segments, lines, rays, vectors, angles and polygons, together with
// the derived geometry a backend needs to put them on screen.
package geometry

import (
	"errors"
	"math"
)

const (
	// Eps is the tolerance used to detect vertical lines and zero lengths.
	Eps = 1e-6
	// HalfExtent bounds the box that infinite lines and rays are clipped to.
	HalfExtent = 1e9
)

// ErrDegenerate is returned when a figure cannot be constructed from its
// arguments (zero direction, zero normal, too few vertices).
var ErrDegenerate = errors.New("degenerate figure")

// Point is a position in world coordinates.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Angle() float64 { return Degrees(math.Atan2(p.Y, p.X)) }
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Segment is a straight piece between two points.
type Segment struct {
	A Point
	B Point
}

// Midpoint returns the centre of the segment.
func (s Segment) Midpoint() Point {
	return Point{(s.A.X + s.B.X) / 2, (s.A.Y + s.B.Y) / 2}
}

// Direction is the angle of A->B in degrees.
func (s Segment) Direction() float64 {
	return s.B.Sub(s.A).Angle()
}

func (s Segment) Len() float64 {
	return s.B.Sub(s.A).Len()
}

// Arc is a circular arc drawn counter-clockwise from Start to End (degrees).
type Arc struct {
	Center Point
	Radius float64
	Start  float64
	End    float64
}

// Sweep returns the counter-clockwise extent of the arc in [0, 360).
func (a Arc) Sweep() float64 {
	return NormalizeDegrees(a.End - a.Start)
}

// Sample returns n+1 points along the arc, first at Start and last at End.
func (a Arc) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	sweep := a.Sweep()
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		rad := Radians(a.Start + sweep*float64(i)/float64(n))
		pts = append(pts, Point{
			X: a.Center.X + a.Radius*math.Cos(rad),
			Y: a.Center.Y + a.Radius*math.Sin(rad),
		})
	}
	return pts
}

// Anchor tells a backend where a label sits relative to its position.
type Anchor int

const (
	AnchorCenter Anchor = iota
	// AnchorSouth centres the text above the position.
	AnchorSouth
	// AnchorSouthWest starts the text at the position, growing up and right.
	AnchorSouthWest
)

// Label is the name annotation of a figure.
type Label struct {
	Text     string
	At       Point
	Rotation float64 // degrees, counter-clockwise
	Anchor   Anchor
}

// Outline is the finite, render-ready form of a figure in world coordinates.
type Outline struct {
	Dots     []Point
	Segments []Segment
	Arrows   []Segment
	Arcs     []Arc
	Text     []string
}

// Figure is implemented by every drawable variant.
type Figure interface {
	Kind() Kind
	Outline() Outline
	// Label returns the annotation for the given shape name. Figures that are
	// never labelled, or an empty name, report false.
	Label(name string) (Label, bool)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
