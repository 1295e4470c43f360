// Package viewport maps world coordinates onto a view surface and applies
// pan and zoom.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/geoslides/internal/geometry"
)

// ErrNonPositiveScale is wrapped by every Error.
var ErrNonPositiveScale = errors.New("scale must be positive")

var (
	ErrNonPositiveSize = errors.New("view size must be positive")
	ErrBadSensitivity  = errors.New("zoom sensitivity must be positive")
)

// Error reports a mutation that would leave the viewport with a
// non-positive (or non-finite) scale. The viewport is left unchanged.
type Error struct {
	Op     string
	ScaleX float64
	ScaleY float64
}

func (e *Error) Error() string {
	return fmt.Sprintf("viewport %s: scale (%g, %g): %v", e.Op, e.ScaleX, e.ScaleY, ErrNonPositiveScale)
}

func (e *Error) Unwrap() error { return ErrNonPositiveScale }

// Viewport maps Origin to the centre of a Width x Height view. ScaleX and
// ScaleY are the world distances from the centre to the view edges.
type Viewport struct {
	Origin geometry.Point
	ScaleX float64
	ScaleY float64
	Width  float64
	Height float64
	// Sensitivity is the zoom constant K; larger values zoom slower.
	Sensitivity float64
}

// Defaults of a fresh viewport.
const (
	DefaultScale       = 10.0
	DefaultSensitivity = 10.0
)

// New returns a viewport centred on the world origin.
func New(width, height float64) *Viewport {
	return &Viewport{
		ScaleX:      DefaultScale,
		ScaleY:      DefaultScale,
		Width:       width,
		Height:      height,
		Sensitivity: DefaultSensitivity,
	}
}

func valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ToView converts a world point to view coordinates; view Y grows downward.
func (v *Viewport) ToView(p geometry.Point) geometry.Point {
	hw, hh := v.Width/2, v.Height/2
	return geometry.Point{
		X: hw + (p.X-v.Origin.X)/v.ScaleX*hw,
		Y: hh - (p.Y-v.Origin.Y)/v.ScaleY*hh,
	}
}

// ToWorld is the inverse of ToView.
func (v *Viewport) ToWorld(p geometry.Point) geometry.Point {
	hw, hh := v.Width/2, v.Height/2
	return geometry.Point{
		X: v.Origin.X + (p.X-hw)/hw*v.ScaleX,
		Y: v.Origin.Y - (p.Y-hh)/hh*v.ScaleY,
	}
}

// PixelsPerUnit returns how many view units one world unit spans on each
// axis.
func (v *Viewport) PixelsPerUnit() (float64, float64) {
	return v.Width / 2 / v.ScaleX, v.Height / 2 / v.ScaleY
}

// Pan shifts the origin by a drag of (dx, dy) view units.
func (v *Viewport) Pan(dx, dy float64) error {
	if !valid(v.Width) || !valid(v.Height) {
		return fmt.Errorf("viewport pan: size %gx%g: %w", v.Width, v.Height, ErrNonPositiveSize)
	}
	v.Origin.X -= dx / v.Width * v.ScaleX
	v.Origin.Y += dy / v.Height * v.ScaleY
	return nil
}

// ZoomFactor returns the multiplier applied by Zoom. A positive delta zooms
// in (factor < 1), a negative one zooms out; ZoomFactor(d) and
// ZoomFactor(-d) are reciprocal.
func ZoomFactor(delta, k float64) float64 {
	if delta > 0 {
		return 1 / (delta/k + 1)
	}
	return -delta/k + 1
}

// Zoom scales both the scale and the origin by ZoomFactor, i.e. zooms about
// the world origin.
func (v *Viewport) Zoom(delta float64) error {
	if !valid(v.Sensitivity) {
		return fmt.Errorf("viewport zoom: sensitivity %g: %w", v.Sensitivity, ErrBadSensitivity)
	}
	f := ZoomFactor(delta, v.Sensitivity)
	sx, sy := v.ScaleX*f, v.ScaleY*f
	if !valid(f) || !valid(sx) || !valid(sy) {
		return &Error{Op: "zoom", ScaleX: sx, ScaleY: sy}
	}
	v.ScaleX, v.ScaleY = sx, sy
	v.Origin = v.Origin.Mul(f)
	return nil
}

// SetCenter moves the world point mapped to the view centre.
func (v *Viewport) SetCenter(x, y float64) {
	v.Origin = geometry.Point{X: x, Y: y}
}

// SetScale replaces both scale components.
func (v *Viewport) SetScale(sx, sy float64) error {
	if !valid(sx) || !valid(sy) {
		return &Error{Op: "scale", ScaleX: sx, ScaleY: sy}
	}
	v.ScaleX, v.ScaleY = sx, sy
	return nil
}

// Resize changes the view size, keeping origin and scale. An empty size is
// rejected and the viewport is left as it was.
func (v *Viewport) Resize(width, height float64) error {
	if !valid(width) || !valid(height) {
		return fmt.Errorf("viewport resize %gx%g: %w", width, height, ErrNonPositiveSize)
	}
	v.Width, v.Height = width, height
	return nil
}
