// Package navigator walks a parsed deck step by step, keeping the scene in
// the exact state each sub-step should show.
//
// Moving forward inside a step only executes the next sub-step. Entering a
// new step clears the scene first. Moving backward always clears the scene
// and replays the current step from its first sub-step, so shapes erased
// later in the step come back.
package navigator

import (
	"fmt"

	"github.com/ivlev/geoslides/internal/interpreter"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/script"
	"github.com/ivlev/geoslides/internal/viewport"
)

// Cursor points at the last executed sub-step. SubStep is -1 before the
// first Next.
type Cursor struct {
	Step    int
	SubStep int
}

// OutOfRangeError is returned by Seek for a cursor outside the deck.
type OutOfRangeError struct {
	Cursor Cursor
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("step %d sub-step %d is out of range", e.Cursor.Step+1, e.Cursor.SubStep+1)
}

type Navigator struct {
	deck     *script.Deck
	scene    *scene.Scene
	viewport *viewport.Viewport
	interp   *interpreter.Interpreter
	cursor   Cursor
}

func New(deck *script.Deck, sc *scene.Scene, vp *viewport.Viewport) *Navigator {
	return &Navigator{
		deck:     deck,
		scene:    sc,
		viewport: vp,
		interp:   interpreter.New(sc, vp),
		cursor:   Cursor{Step: 0, SubStep: -1},
	}
}

func (n *Navigator) Cursor() Cursor {
	return n.cursor
}

// Viewport returns the viewport shared with the interpreter.
func (n *Navigator) Viewport() *viewport.Viewport {
	return n.viewport
}

// AtStart reports whether Prev would do nothing.
func (n *Navigator) AtStart() bool {
	return n.cursor.Step == 0 && n.cursor.SubStep <= 0
}

// AtEnd reports whether Next would do nothing.
func (n *Navigator) AtEnd() bool {
	if len(n.deck.Steps) == 0 {
		return true
	}
	last := len(n.deck.Steps) - 1
	return n.cursor.Step == last && n.cursor.SubStep == len(n.deck.Steps[last].SubSteps)-1
}

// Next moves one sub-step forward. It reports whether anything happened.
// On an interpreter error the cursor has already moved; the scene holds
// whatever ran before the failing command.
func (n *Navigator) Next() (bool, error) {
	if n.AtEnd() {
		return false, nil
	}

	c := n.cursor
	fresh := false
	switch {
	case c.SubStep == -1:
		c.SubStep = 0
		fresh = true
	case c.SubStep+1 == len(n.deck.Steps[c.Step].SubSteps):
		c.Step++
		c.SubStep = 0
		fresh = true
	default:
		c.SubStep++
	}
	n.cursor = c

	if fresh {
		if err := n.scene.Clear(); err != nil {
			return true, err
		}
	}
	if err := n.interp.Run(n.deck.Steps[c.Step].SubSteps[c.SubStep].Commands); err != nil {
		return true, n.refreshAfter(err)
	}
	return true, n.scene.Refresh()
}

// Prev moves one sub-step back and replays the current step up to it.
func (n *Navigator) Prev() (bool, error) {
	if n.AtStart() {
		return false, nil
	}

	c := n.cursor
	if c.SubStep == 0 {
		c.Step--
		c.SubStep = len(n.deck.Steps[c.Step].SubSteps) - 1
	} else {
		c.SubStep--
	}
	n.cursor = c

	if err := n.scene.Clear(); err != nil {
		return true, err
	}
	if err := n.replay(); err != nil {
		return true, n.refreshAfter(err)
	}
	return true, n.scene.Refresh()
}

// Seek jumps to the given sub-step of the given step by clearing and
// replaying that step.
func (n *Navigator) Seek(to Cursor) error {
	if to.Step < 0 || to.Step >= len(n.deck.Steps) ||
		to.SubStep < 0 || to.SubStep >= len(n.deck.Steps[to.Step].SubSteps) {
		return &OutOfRangeError{Cursor: to}
	}
	n.cursor = to
	if err := n.scene.Clear(); err != nil {
		return err
	}
	if err := n.replay(); err != nil {
		return n.refreshAfter(err)
	}
	return n.scene.Refresh()
}

func (n *Navigator) replay() error {
	step := n.deck.Steps[n.cursor.Step]
	for i := 0; i <= n.cursor.SubStep; i++ {
		if err := n.interp.Run(step.SubSteps[i].Commands); err != nil {
			return err
		}
	}
	return nil
}

// refreshAfter still presents the partial state of a failed sub-step.
func (n *Navigator) refreshAfter(err error) error {
	if rerr := n.scene.Refresh(); rerr != nil {
		return rerr
	}
	return err
}

// Pan drags the view by (dx, dy) view units and redraws everything.
func (n *Navigator) Pan(dx, dy float64) error {
	if err := n.viewport.Pan(dx, dy); err != nil {
		return err
	}
	return n.redraw()
}

// Zoom applies a zoom step and redraws everything.
func (n *Navigator) Zoom(delta float64) error {
	if err := n.viewport.Zoom(delta); err != nil {
		return err
	}
	return n.redraw()
}

// Resize changes the view size and redraws everything.
func (n *Navigator) Resize(width, height float64) error {
	if err := n.viewport.Resize(width, height); err != nil {
		return err
	}
	return n.redraw()
}

func (n *Navigator) redraw() error {
	if err := n.scene.Redraw(n.viewport); err != nil {
		return err
	}
	return n.scene.Refresh()
}
