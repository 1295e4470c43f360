package interpreter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/render"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/script"
	"github.com/ivlev/geoslides/internal/viewport"
)

func setup() (*Interpreter, *scene.Scene, *viewport.Viewport, *render.Recorder) {
	rec := render.NewRecorder()
	sc := scene.New(rec)
	vp := viewport.New(800, 800)
	return New(sc, vp), sc, vp, rec
}

func mustParse(t *testing.T, line string) script.Command {
	t.Helper()
	cmd, err := script.ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine(%q) failed: %v", line, err)
	}
	return cmd
}

func TestFigure(t *testing.T) {
	tests := []struct {
		line string
		kind geometry.Kind
	}{
		{"draw point 1 2", geometry.KindPoint},
		{"draw segment 0 0 1 1", geometry.KindSegment},
		{"draw line 1 0 -5", geometry.KindLine},
		{"draw ray 0 0 1 1", geometry.KindRay},
		{"draw vector 0 0 1 1", geometry.KindVector},
		{"draw angle 0 0 1 0 0 1", geometry.KindAngle},
		{"draw polygon 0 0 1 0 1 1 0 1", geometry.KindPolygon},
	}

	for _, tt := range tests {
		fig, err := Figure(mustParse(t, tt.line))
		if err != nil {
			t.Errorf("%s: %v", tt.line, err)
			continue
		}
		if fig.Kind() != tt.kind {
			t.Errorf("%s: expected %s, got %s", tt.line, tt.kind, fig.Kind())
		}
	}

	line, _ := Figure(mustParse(t, "draw line 1 0 -5"))
	seg := line.(geometry.Line).Segment()
	if seg.A.X != 5 || seg.B.X != 5 {
		t.Errorf("Expected vertical line at x=5, got %v", seg)
	}

	angle, _ := Figure(mustParse(t, "draw angle 0 0 1 0 0 1 arc=0"))
	if angle.(geometry.Angle).WithArc {
		t.Error("arc=0 must suppress the arc")
	}
	angle, _ = Figure(mustParse(t, "draw angle 0 0 1 0 0 1"))
	if !angle.(geometry.Angle).WithArc {
		t.Error("Angles draw their arc by default")
	}
}

func TestZeroLengthFiguresKeepRunning(t *testing.T) {
	tests := []string{
		"draw vector 1 1 1 1",
		"draw angle 0 0 0 0 1 1",
		"draw polygon 0 0 1 1",
	}

	for _, line := range tests {
		in, _, _, rec := setup()
		err := in.Run([]script.Command{
			mustParse(t, line),
			mustParse(t, "draw point 0 0 name=after"),
		})
		if err != nil {
			t.Errorf("%s: %v", line, err)
			continue
		}
		if got := rec.Visible(); !reflect.DeepEqual(got, []string{"after"}) {
			t.Errorf("%s: expected [after] visible, got %v", line, got)
		}
	}
}

func TestDrawAndErase(t *testing.T) {
	in, sc, _, rec := setup()

	err := in.Run([]script.Command{
		mustParse(t, "draw point 1 2 name=A color=red"),
		mustParse(t, "draw segment 0 0 1 1"),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	a, ok := sc.Get("A")
	if !ok || a.Color != "red" {
		t.Fatalf("Expected red point A, got %+v", a)
	}
	if sc.Len() != 2 {
		t.Errorf("Expected 2 shapes, got %d", sc.Len())
	}
	for _, s := range sc.Shapes() {
		if s.Name == "" && s.Color != DefaultColor {
			t.Errorf("Expected default color, got %q", s.Color)
		}
	}

	if err := in.Execute(mustParse(t, "erase point A")); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if len(rec.Visible()) != 0 {
		t.Errorf("Expected no visible named shapes, got %v", rec.Visible())
	}
}

func TestViewportCommands(t *testing.T) {
	in, _, vp, _ := setup()

	if err := in.Execute(mustParse(t, "center 3 -4")); err != nil {
		t.Fatalf("center failed: %v", err)
	}
	if err := in.Execute(mustParse(t, "scale 2 5")); err != nil {
		t.Fatalf("scale failed: %v", err)
	}
	if vp.Origin != (geometry.Point{X: 3, Y: -4}) || vp.ScaleX != 2 || vp.ScaleY != 5 {
		t.Errorf("Unexpected viewport %+v", vp)
	}
}

func TestPrintReplacesOverlay(t *testing.T) {
	in, sc, _, _ := setup()

	for _, line := range []string{`print first`, `print second\nthird`} {
		if err := in.Execute(mustParse(t, line)); err != nil {
			t.Fatalf("print failed: %v", err)
		}
	}
	lines, ok := sc.Overlay()
	if !ok || !reflect.DeepEqual(lines, []string{"second", "third"}) {
		t.Errorf("Expected [second third], got %v", lines)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		cmds []string
		want error
	}{
		{"unknown name", []string{"erase point Z"}, scene.ErrNotFound},
		{"kind mismatch", []string{"draw segment 0 0 1 1 name=s", "erase point s"}, scene.ErrKindMismatch},
		{"zero direction", []string{"draw ray 1 1 0 0"}, geometry.ErrDegenerate},
		{"zero normal", []string{"draw line 0 0 1"}, geometry.ErrDegenerate},
		{"bad color", []string{"draw point 0 0 color=chartreusey"}, render.ErrUnknownColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _, _, _ := setup()
			var cmds []script.Command
			for _, l := range tt.cmds {
				cmds = append(cmds, mustParse(t, l))
			}

			err := in.Run(cmds)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			var ierr *Error
			if !errors.As(err, &ierr) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if ierr.Command.String() != cmds[len(cmds)-1].String() {
				t.Errorf("Expected failing command %q, got %q", cmds[len(cmds)-1], ierr.Command)
			}
		})
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	in, sc, _, _ := setup()

	err := in.Run([]script.Command{
		mustParse(t, "draw point 0 0 name=A"),
		mustParse(t, "erase point missing"),
		mustParse(t, "draw point 1 1 name=B"),
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if _, ok := sc.Get("B"); ok {
		t.Error("Commands after the failing one must not run")
	}
	if _, ok := sc.Get("A"); !ok {
		t.Error("Commands before the failing one must stay applied")
	}
}
