package render

import (
	"fmt"
	"sort"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/viewport"
)

// Item is one live object held by a Recorder.
type Item struct {
	ID    scene.ID
	Kind  geometry.Kind
	Name  string
	Color string
	// View is set for geometry items, Label for label items.
	View  Primitives
	Label *geometry.Label
}

// Recorder is a Backend that keeps what would be on screen without drawing
// anything. It is used by -check and by tests.
type Recorder struct {
	next      scene.ID
	live      map[scene.ID]Item
	Draws     int
	Undraws   int
	Refreshes int
}

func NewRecorder() *Recorder {
	return &Recorder{live: make(map[scene.ID]Item)}
}

func (r *Recorder) Draw(s *scene.Shape, vp *viewport.Viewport) (scene.Handle, error) {
	r.Draws++
	if _, err := ParseColor(s.Color); err != nil {
		return scene.Handle{}, err
	}
	r.next++
	h := scene.Handle{Geometry: r.next}
	r.live[r.next] = Item{
		ID:    r.next,
		Kind:  s.Kind(),
		Name:  s.Name,
		Color: s.Color,
		View:  Project(s.Figure.Outline(), vp),
	}

	if l, ok := s.Label(); ok {
		r.next++
		h.Label = r.next
		r.live[r.next] = Item{ID: r.next, Kind: s.Kind(), Name: s.Name, Color: s.Color, Label: &l}
	}
	return h, nil
}

func (r *Recorder) Undraw(h scene.Handle) error {
	r.Undraws++
	for _, id := range []scene.ID{h.Geometry, h.Label} {
		if id == 0 {
			continue
		}
		if _, ok := r.live[id]; !ok {
			return fmt.Errorf("undraw of unknown handle %d", id)
		}
		delete(r.live, id)
	}
	return nil
}

func (r *Recorder) Refresh() error {
	r.Refreshes++
	return nil
}

// Calls returns the number of draw and undraw requests received so far.
func (r *Recorder) Calls() int {
	return r.Draws + r.Undraws
}

// Items returns the live objects in the order they were drawn.
func (r *Recorder) Items() []Item {
	items := make([]Item, 0, len(r.live))
	for _, it := range r.live {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Visible returns the sorted names of the named shapes currently drawn.
func (r *Recorder) Visible() []string {
	var names []string
	for _, it := range r.live {
		if it.Name != "" && it.Label == nil && it.Kind != geometry.KindText {
			names = append(names, it.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Overlay returns the text of the live overlay, if any.
func (r *Recorder) Overlay() ([]string, bool) {
	for _, it := range r.live {
		if it.Kind == geometry.KindText {
			return it.View.Text, true
		}
	}
	return nil, false
}
