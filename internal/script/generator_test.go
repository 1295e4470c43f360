package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ivlev/geoslides/internal/geometry"
)

func TestWriterOutputParses(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Center(0, 0)
	w.Scale(10, 10)
	w.Polygon([]geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, "green")
	w.Point(geometry.Point{X: 0.5, Y: 0.25}, "first")
	w.Wait()
	w.Line(1, -1, 0, "red")
	w.Ray(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 2}, "blue", "r")
	w.Print("binary search\nstep 1")
	w.Wait()
	w.Erase(geometry.KindPoint, "first")
	w.End()
	w.Vector(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 1}, "", "")
	w.Angle(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0}, geometry.Point{X: 0, Y: 1}, true)
	w.Segment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 2, Y: 2}, "black", "AB")

	if err := w.Err(); err != nil {
		t.Fatalf("Writer failed: %v", err)
	}

	deck, err := ParseReader(&buf)
	if err != nil {
		t.Fatalf("Generated script does not parse: %v", err)
	}
	if len(deck.Steps) != 2 || deck.Len() != 4 {
		t.Errorf("Expected 2 steps and 4 sub-steps, got %d and %d", len(deck.Steps), deck.Len())
	}

	first := deck.Steps[0].SubSteps[0].Commands
	if first[3].Name != "first" || first[3].Args[0] != "0.5" {
		t.Errorf("Unexpected point command %s", first[3])
	}

	printCmd := deck.Steps[0].SubSteps[1].Commands[2]
	if len(printCmd.Text()) != 2 {
		t.Errorf("Expected two print lines, got %q", printCmd.Text())
	}

	angle := deck.Steps[1].SubSteps[0].Commands[1]
	if angle.Option("arc", "") != "1" {
		t.Errorf("Expected arc=1, got %q", angle.Option("arc", ""))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.Wait()
	w.End()
	if w.Err() == nil || !strings.Contains(w.Err().Error(), "disk full") {
		t.Errorf("Expected sticky write error, got %v", w.Err())
	}

	w = NewWriter(&bytes.Buffer{})
	w.Erase(geometry.KindPoint, "")
	if !errors.Is(w.Err(), ErrArgCount) {
		t.Errorf("Expected ErrArgCount for unnamed erase, got %v", w.Err())
	}
}
