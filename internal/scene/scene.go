// Package scene keeps the registry of shapes that are currently on screen
// together with the backend handles that let them be removed again.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/viewport"
)

var (
	ErrNotFound     = errors.New("shape not found")
	ErrAlreadyDrawn = errors.New("shape already drawn")
	ErrKindMismatch = errors.New("shape kind mismatch")
)

// ID is an opaque backend identifier. Zero means "nothing drawn".
type ID uint64

// Handle holds what a backend returned for one shape: the geometry and,
// when the shape is labelled, the label.
type Handle struct {
	Geometry ID
	Label    ID
}

// Backend is the drawing capability consumed from a renderer.
type Backend interface {
	// Draw renders the shape through the viewport and returns its handle.
	Draw(s *Shape, vp *viewport.Viewport) (Handle, error)
	// Undraw removes whatever the handle refers to.
	Undraw(h Handle) error
	// Refresh flushes pending drawing to the visible surface.
	Refresh() error
}

// Shape is one drawn figure with its style. The handle is owned by the Scene.
type Shape struct {
	Name    string
	Figure  geometry.Figure
	Color   string
	Options map[string]string

	key    string
	handle Handle
	drawn  bool
}

func (s *Shape) Kind() geometry.Kind {
	return s.Figure.Kind()
}

// Label returns the name annotation, if the figure carries one.
func (s *Shape) Label() (geometry.Label, bool) {
	return s.Figure.Label(s.Name)
}

// Handle returns the backend handle while the shape is drawn.
func (s *Shape) Handle() (Handle, bool) {
	return s.handle, s.drawn
}

// Scene maps names to shapes. Unnamed shapes get a generated key and can
// only go away with Clear.
type Scene struct {
	backend   Backend
	named     map[string]*Shape
	anonymous map[string]*Shape
	order     []*Shape
	overlay   *Shape
}

func New(backend Backend) *Scene {
	return &Scene{
		backend:   backend,
		named:     make(map[string]*Shape),
		anonymous: make(map[string]*Shape),
	}
}

func (sc *Scene) draw(s *Shape, vp *viewport.Viewport) error {
	if s.drawn {
		return fmt.Errorf("%s %q: %w", s.Kind(), s.Name, ErrAlreadyDrawn)
	}
	h, err := sc.backend.Draw(s, vp)
	if err != nil {
		return err
	}
	s.handle = h
	s.drawn = true
	return nil
}

func (sc *Scene) release(s *Shape) error {
	if !s.drawn {
		return nil
	}
	h := s.handle
	s.handle = Handle{}
	s.drawn = false
	return sc.backend.Undraw(h)
}

func (sc *Scene) unlink(s *Shape) {
	for i, o := range sc.order {
		if o == s {
			sc.order = append(sc.order[:i], sc.order[i+1:]...)
			return
		}
	}
}

// Put draws s and registers it. A named shape replaces any earlier shape of
// the same name, whose handle is released first.
func (sc *Scene) Put(s *Shape, vp *viewport.Viewport) error {
	if s.drawn {
		return fmt.Errorf("%s %q: %w", s.Kind(), s.Name, ErrAlreadyDrawn)
	}

	if s.Name != "" {
		if old, ok := sc.named[s.Name]; ok {
			delete(sc.named, s.Name)
			sc.unlink(old)
			if err := sc.release(old); err != nil {
				return fmt.Errorf("replace %q: %w", s.Name, err)
			}
		}
	}

	if err := sc.draw(s, vp); err != nil {
		return err
	}

	if s.Name != "" {
		sc.named[s.Name] = s
	} else {
		s.key = uuid.NewString()
		sc.anonymous[s.key] = s
	}
	sc.order = append(sc.order, s)
	return nil
}

// Remove erases the named shape. The kind must match the one it was drawn
// with.
func (sc *Scene) Remove(kind geometry.Kind, name string) error {
	s, ok := sc.named[name]
	if !ok {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	if s.Kind() != kind {
		return fmt.Errorf("%q is a %s, not a %s: %w", name, s.Kind(), kind, ErrKindMismatch)
	}
	delete(sc.named, name)
	sc.unlink(s)
	return sc.release(s)
}

// SetOverlay replaces the overlay text. Empty text removes it.
func (sc *Scene) SetOverlay(lines []string, vp *viewport.Viewport) error {
	if sc.overlay != nil {
		old := sc.overlay
		sc.overlay = nil
		if err := sc.release(old); err != nil {
			return err
		}
	}
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return nil
	}

	s := &Shape{Figure: geometry.Text{Lines: lines}, Color: "black"}
	if err := sc.draw(s, vp); err != nil {
		return err
	}
	sc.overlay = s
	return nil
}

// Clear releases every handle and empties the scene, overlay included.
func (sc *Scene) Clear() error {
	var errs []error
	for _, s := range sc.order {
		errs = append(errs, sc.release(s))
	}
	if sc.overlay != nil {
		errs = append(errs, sc.release(sc.overlay))
	}
	sc.named = make(map[string]*Shape)
	sc.anonymous = make(map[string]*Shape)
	sc.order = nil
	sc.overlay = nil
	return errors.Join(errs...)
}

// Redraw re-issues every live shape through vp, in draw order. A shape the
// backend refuses to draw again is dropped from the scene.
func (sc *Scene) Redraw(vp *viewport.Viewport) error {
	live := append([]*Shape(nil), sc.order...)
	if sc.overlay != nil {
		live = append(live, sc.overlay)
	}
	var errs []error
	for _, s := range live {
		if err := sc.release(s); err != nil {
			errs = append(errs, err)
		}
		if err := sc.draw(s, vp); err != nil {
			sc.forget(s)
			errs = append(errs, fmt.Errorf("redraw %s %q: %w", s.Kind(), s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// forget drops s from every index without touching the backend.
func (sc *Scene) forget(s *Shape) {
	if s == sc.overlay {
		sc.overlay = nil
		return
	}
	if s.Name != "" && sc.named[s.Name] == s {
		delete(sc.named, s.Name)
	}
	if s.key != "" {
		delete(sc.anonymous, s.key)
	}
	sc.unlink(s)
}

// Refresh asks the backend to present what has been drawn.
func (sc *Scene) Refresh() error {
	return sc.backend.Refresh()
}

// Get returns a named shape.
func (sc *Scene) Get(name string) (*Shape, bool) {
	s, ok := sc.named[name]
	return s, ok
}

// Names returns the names of the visible named shapes, sorted.
func (sc *Scene) Names() []string {
	names := make([]string, 0, len(sc.named))
	for name := range sc.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len counts named and anonymous shapes. The overlay is not counted.
func (sc *Scene) Len() int {
	return len(sc.named) + len(sc.anonymous)
}

// Shapes returns the live shapes in draw order.
func (sc *Scene) Shapes() []*Shape {
	return append([]*Shape(nil), sc.order...)
}

// Overlay returns the current overlay lines.
func (sc *Scene) Overlay() ([]string, bool) {
	if sc.overlay == nil {
		return nil, false
	}
	return sc.overlay.Figure.(geometry.Text).Lines, true
}
