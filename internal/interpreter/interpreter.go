// Package interpreter executes script commands against a scene and a
// viewport.
package interpreter

import (
	"fmt"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/script"
	"github.com/ivlev/geoslides/internal/viewport"
)

// DefaultColor is used when a draw command has no color option.
const DefaultColor = "black"

// Error identifies the command that failed.
type Error struct {
	Command script.Command
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q: %v", e.Command.String(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Interpreter struct {
	scene    *scene.Scene
	viewport *viewport.Viewport
}

func New(sc *scene.Scene, vp *viewport.Viewport) *Interpreter {
	return &Interpreter{scene: sc, viewport: vp}
}

// Execute runs a single command.
func (in *Interpreter) Execute(cmd script.Command) error {
	if err := in.execute(cmd); err != nil {
		return &Error{Command: cmd, Err: err}
	}
	return nil
}

// Run executes cmds in order and stops at the first failure.
func (in *Interpreter) Run(cmds []script.Command) error {
	for _, cmd := range cmds {
		if err := in.Execute(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(cmd script.Command) error {
	switch cmd.Verb {
	case script.VerbDraw:
		fig, err := Figure(cmd)
		if err != nil {
			return err
		}
		return in.scene.Put(&scene.Shape{
			Name:    cmd.Name,
			Figure:  fig,
			Color:   cmd.Option("color", DefaultColor),
			Options: cmd.Options,
		}, in.viewport)

	case script.VerbErase:
		return in.scene.Remove(cmd.Shape, cmd.Name)

	case script.VerbCenter, script.VerbScale:
		vals, err := numbers(cmd, 2)
		if err != nil {
			return err
		}
		if cmd.Verb == script.VerbCenter {
			in.viewport.SetCenter(vals[0], vals[1])
		} else if err := in.viewport.SetScale(vals[0], vals[1]); err != nil {
			return err
		}
		// Shapes already on screen follow the new view.
		return in.scene.Redraw(in.viewport)

	case script.VerbPrint:
		return in.scene.SetOverlay(cmd.Text(), in.viewport)

	case script.VerbWait, script.VerbEnd:
		return nil
	}
	return fmt.Errorf("verb %d: %w", cmd.Verb, script.ErrUnknownVerb)
}

func numbers(cmd script.Command, n int) ([]float64, error) {
	vals, err := cmd.Floats()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(vals) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d: %w", n, len(vals), script.ErrArgCount)
	}
	return vals, nil
}

// Figure builds the geometry a draw command describes.
func Figure(cmd script.Command) (geometry.Figure, error) {
	switch cmd.Shape {
	case geometry.KindPoint:
		v, err := numbers(cmd, 2)
		if err != nil {
			return nil, err
		}
		return geometry.Point{X: v[0], Y: v[1]}, nil

	case geometry.KindSegment:
		v, err := numbers(cmd, 4)
		if err != nil {
			return nil, err
		}
		return geometry.NewSegment(v[0], v[1], v[2], v[3]), nil

	case geometry.KindLine:
		v, err := numbers(cmd, 3)
		if err != nil {
			return nil, err
		}
		return geometry.NewLine(v[0], v[1], v[2])

	case geometry.KindRay:
		v, err := numbers(cmd, 4)
		if err != nil {
			return nil, err
		}
		return geometry.NewRay(v[0], v[1], v[2], v[3])

	case geometry.KindVector:
		v, err := numbers(cmd, 4)
		if err != nil {
			return nil, err
		}
		return geometry.NewVector(v[0], v[1], v[2], v[3]), nil

	case geometry.KindAngle:
		v, err := numbers(cmd, 6)
		if err != nil {
			return nil, err
		}
		return geometry.NewAngle(
			geometry.Point{X: v[0], Y: v[1]},
			geometry.Point{X: v[2], Y: v[3]},
			geometry.Point{X: v[4], Y: v[5]},
			cmd.Option("arc", "1") != "0",
		), nil

	case geometry.KindPolygon:
		v, err := numbers(cmd, -1)
		if err != nil {
			return nil, err
		}
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("odd number of polygon coordinates: %w", script.ErrArgCount)
		}
		pts := make([]geometry.Point, 0, len(v)/2)
		for i := 0; i < len(v); i += 2 {
			pts = append(pts, geometry.Point{X: v[i], Y: v[i+1]})
		}
		return geometry.NewPolygon(pts)
	}
	return nil, fmt.Errorf("%q: %w", cmd.Shape.String(), script.ErrUnknownShape)
}
