package scene

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/viewport"
)

// countingBackend hands out increasing IDs and tracks which are live.
type countingBackend struct {
	next      ID
	live      map[ID]bool
	refreshes int
	failDraw  bool
}

func newCountingBackend() *countingBackend {
	return &countingBackend{live: make(map[ID]bool)}
}

func (b *countingBackend) Draw(s *Shape, vp *viewport.Viewport) (Handle, error) {
	if b.failDraw {
		return Handle{}, errors.New("draw failed")
	}
	b.next++
	h := Handle{Geometry: b.next}
	b.live[b.next] = true
	if _, ok := s.Label(); ok {
		b.next++
		h.Label = b.next
		b.live[b.next] = true
	}
	return h, nil
}

func (b *countingBackend) Undraw(h Handle) error {
	for _, id := range []ID{h.Geometry, h.Label} {
		if id == 0 {
			continue
		}
		if !b.live[id] {
			return errors.New("double undraw")
		}
		delete(b.live, id)
	}
	return nil
}

func (b *countingBackend) Refresh() error {
	b.refreshes++
	return nil
}

func point(name string, x, y float64) *Shape {
	return &Shape{Name: name, Figure: geometry.Point{X: x, Y: y}, Color: "black"}
}

func TestPutAndRemove(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	if err := sc.Put(point("A", 1, 1), vp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := sc.Put(point("", 2, 2), vp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if sc.Len() != 2 {
		t.Errorf("Expected 2 shapes, got %d", sc.Len())
	}
	// A named point has geometry and label, the anonymous one only geometry.
	if len(b.live) != 3 {
		t.Errorf("Expected 3 live backend objects, got %d", len(b.live))
	}

	if err := sc.Remove(geometry.KindPoint, "A"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := sc.Get("A"); ok {
		t.Error("A must be gone after Remove")
	}
	if len(b.live) != 1 {
		t.Errorf("Expected 1 live backend object, got %d", len(b.live))
	}

	if err := sc.Remove(geometry.KindPoint, "A"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPutReplacesName(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	first := point("A", 1, 1)
	second := point("A", 5, 5)
	if err := sc.Put(first, vp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := sc.Put(second, vp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if sc.Len() != 1 {
		t.Errorf("Expected 1 shape, got %d", sc.Len())
	}
	if _, drawn := first.Handle(); drawn {
		t.Error("Replaced shape must be released")
	}
	if got, _ := sc.Get("A"); got != second {
		t.Error("Name must refer to the newest shape")
	}
	if len(b.live) != 2 {
		t.Errorf("Expected 2 live backend objects, got %d", len(b.live))
	}
}

func TestRemoveKindMismatch(t *testing.T) {
	sc := New(newCountingBackend())
	vp := viewport.New(100, 100)

	seg := &Shape{Name: "s", Figure: geometry.NewSegment(0, 0, 1, 1)}
	if err := sc.Put(seg, vp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := sc.Remove(geometry.KindPoint, "s"); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Expected ErrKindMismatch, got %v", err)
	}
	if _, ok := sc.Get("s"); !ok {
		t.Error("Mismatched erase must keep the shape")
	}
}

func TestPutAlreadyDrawn(t *testing.T) {
	sc := New(newCountingBackend())
	vp := viewport.New(100, 100)

	p := point("", 0, 0)
	if err := sc.Put(p, vp); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := sc.Put(p, vp); !errors.Is(err, ErrAlreadyDrawn) {
		t.Errorf("Expected ErrAlreadyDrawn, got %v", err)
	}
}

func TestClearReleasesEverything(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	for _, name := range []string{"A", "B", ""} {
		if err := sc.Put(point(name, 0, 0), vp); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := sc.SetOverlay([]string{"hello"}, vp); err != nil {
		t.Fatalf("SetOverlay failed: %v", err)
	}

	if err := sc.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(b.live) != 0 {
		t.Errorf("Expected no live backend objects, got %d", len(b.live))
	}
	if sc.Len() != 0 || len(sc.Names()) != 0 {
		t.Errorf("Expected empty scene, got %v", sc.Names())
	}
	if _, ok := sc.Overlay(); ok {
		t.Error("Clear must remove the overlay")
	}

	// Clearing twice is harmless.
	if err := sc.Clear(); err != nil {
		t.Errorf("Second Clear failed: %v", err)
	}
}

func TestOverlay(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	if err := sc.SetOverlay([]string{"one", "two"}, vp); err != nil {
		t.Fatalf("SetOverlay failed: %v", err)
	}
	if err := sc.SetOverlay([]string{"three"}, vp); err != nil {
		t.Fatalf("SetOverlay failed: %v", err)
	}
	lines, ok := sc.Overlay()
	if !ok || !reflect.DeepEqual(lines, []string{"three"}) {
		t.Errorf("Expected overlay [three], got %v", lines)
	}
	if len(b.live) != 1 {
		t.Errorf("Expected 1 live backend object, got %d", len(b.live))
	}

	if err := sc.SetOverlay([]string{""}, vp); err != nil {
		t.Fatalf("SetOverlay failed: %v", err)
	}
	if _, ok := sc.Overlay(); ok {
		t.Error("Empty text must remove the overlay")
	}
	if sc.Len() != 0 {
		t.Errorf("Overlay must not count as a shape, got %d", sc.Len())
	}
}

func TestRedrawKeepsOrder(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	for _, name := range []string{"C", "A", "B"} {
		if err := sc.Put(point(name, 0, 0), vp); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	before := len(b.live)

	if err := sc.Redraw(vp); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	if len(b.live) != before {
		t.Errorf("Redraw must not leak handles: %d before, %d after", before, len(b.live))
	}

	var order []string
	for _, s := range sc.Shapes() {
		order = append(order, s.Name)
	}
	if !reflect.DeepEqual(order, []string{"C", "A", "B"}) {
		t.Errorf("Expected draw order [C A B], got %v", order)
	}
	if !reflect.DeepEqual(sc.Names(), []string{"A", "B", "C"}) {
		t.Errorf("Expected sorted names, got %v", sc.Names())
	}

	if err := sc.Refresh(); err != nil || b.refreshes != 1 {
		t.Errorf("Expected one refresh, got %d (%v)", b.refreshes, err)
	}
}

func TestFailedDrawIsNotRegistered(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	b.failDraw = true
	if err := sc.Put(point("A", 0, 0), vp); err == nil {
		t.Fatal("Expected draw error")
	}
	if sc.Len() != 0 {
		t.Errorf("Failed shape must not be registered, got %d", sc.Len())
	}
}

func TestRedrawDropsShapesItCannotDraw(t *testing.T) {
	b := newCountingBackend()
	sc := New(b)
	vp := viewport.New(100, 100)

	for _, s := range []*Shape{point("A", 0, 0), point("", 1, 1)} {
		if err := sc.Put(s, vp); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := sc.SetOverlay([]string{"note"}, vp); err != nil {
		t.Fatalf("SetOverlay failed: %v", err)
	}

	b.failDraw = true
	if err := sc.Redraw(vp); err == nil {
		t.Fatal("Expected redraw error")
	}
	if sc.Len() != 0 || len(sc.Shapes()) != 0 {
		t.Errorf("Expected an empty scene, got %d shapes", sc.Len())
	}
	if _, ok := sc.Get("A"); ok {
		t.Error("A has no live handle and must be gone")
	}
	if _, ok := sc.Overlay(); ok {
		t.Error("Overlay has no live handle and must be gone")
	}
	if len(b.live) != 0 {
		t.Errorf("Expected no live handles, got %d", len(b.live))
	}

	b.failDraw = false
	if err := sc.Clear(); err != nil {
		t.Errorf("Clear after a failed redraw must not undraw twice: %v", err)
	}
}
