package script

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ivlev/geoslides/internal/geometry"
)

// Writer emits script lines for programs that visualize their own
// computations step by step. The first write error sticks and is reported
// by Err.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

// Command writes any command verbatim.
func (w *Writer) Command(c Command) {
	if w.err != nil {
		return
	}
	if err := c.Validate(); err != nil {
		w.err = fmt.Errorf("write %q: %w", c.String(), err)
		return
	}
	_, w.err = fmt.Fprintln(w.w, c.String())
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func nums(vs ...float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = num(v)
	}
	return out
}

func colorOption(color string) map[string]string {
	if color == "" {
		return nil
	}
	return map[string]string{"color": color}
}

func (w *Writer) draw(kind geometry.Kind, args []string, opts map[string]string, name string) {
	w.Command(Command{Verb: VerbDraw, Shape: kind, Args: args, Options: opts, Name: name})
}

func (w *Writer) Point(p geometry.Point, name string) {
	w.draw(geometry.KindPoint, nums(p.X, p.Y), nil, name)
}

func (w *Writer) Segment(from, to geometry.Point, color, name string) {
	w.draw(geometry.KindSegment, nums(from.X, from.Y, to.X, to.Y), colorOption(color), name)
}

func (w *Writer) Vector(from, to geometry.Point, color, name string) {
	w.draw(geometry.KindVector, nums(from.X, from.Y, to.X, to.Y), colorOption(color), name)
}

func (w *Writer) Ray(origin, dir geometry.Point, color, name string) {
	w.draw(geometry.KindRay, nums(origin.X, origin.Y, dir.X, dir.Y), colorOption(color), name)
}

// Line writes the implicit line a*x + b*y + c = 0.
func (w *Writer) Line(a, b, c float64, color string) {
	w.draw(geometry.KindLine, nums(a, b, c), colorOption(color), "")
}

func (w *Writer) Angle(apex, first, second geometry.Point, withArc bool) {
	arc := "0"
	if withArc {
		arc = "1"
	}
	w.draw(geometry.KindAngle, nums(apex.X, apex.Y, first.X, first.Y, second.X, second.Y),
		map[string]string{"arc": arc}, "")
}

func (w *Writer) Polygon(vertices []geometry.Point, color string) {
	args := make([]string, 0, 2*len(vertices))
	for _, v := range vertices {
		args = append(args, nums(v.X, v.Y)...)
	}
	w.draw(geometry.KindPolygon, args, colorOption(color), "")
}

func (w *Writer) Erase(kind geometry.Kind, name string) {
	w.Command(Command{Verb: VerbErase, Shape: kind, Name: name})
}

// Print writes an overlay text; real newlines become the `\n` escape.
func (w *Writer) Print(text string) {
	w.Command(Command{Verb: VerbPrint, Args: []string{strings.ReplaceAll(text, "\n", `\n`)}})
}

func (w *Writer) Center(x, y float64) {
	w.Command(Command{Verb: VerbCenter, Args: nums(x, y)})
}

func (w *Writer) Scale(sx, sy float64) {
	w.Command(Command{Verb: VerbScale, Args: nums(sx, sy)})
}

// Wait ends the current sub-step.
func (w *Writer) Wait() {
	w.Command(Command{Verb: VerbWait})
}

// End ends the current step.
func (w *Writer) End() {
	w.Command(Command{Verb: VerbEnd})
}
