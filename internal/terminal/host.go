package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/geoslides/internal/config"
	"github.com/ivlev/geoslides/internal/navigator"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/script"
)

const (
	panStep  = 4.0
	zoomStep = 1.0
	help     = "n/→ next  p/← prev  hjkl pan  +/- zoom  q quit"
)

// Host turns key and mouse events into navigator calls.
type Host struct {
	screen tcell.Screen
	grid   *Grid
	nav    *navigator.Navigator
	deck   *script.Deck

	lastErr  error
	dragging bool
	dragX    int
	dragY    int
}

// NewHost expects an initialized screen; the caller owns Init and Fini.
func NewHost(screen tcell.Screen, deck *script.Deck, cfg *config.Config) *Host {
	grid := NewGrid(screen)
	vp := cfg.Viewport()
	// On an empty screen the configured size stays until the first resize.
	vp.Resize(grid.ViewSize())

	h := &Host{
		screen: screen,
		grid:   grid,
		nav:    navigator.New(deck, scene.New(grid), vp),
		deck:   deck,
	}
	grid.Decorate = h.drawStatus
	return h
}

// Run shows the first sub-step and processes events until the user quits.
func (h *Host) Run() error {
	h.screen.EnableMouse()
	h.screen.HideCursor()
	h.start()

	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !h.handle(ev) {
			return nil
		}
	}
}

func (h *Host) start() {
	changed, err := h.nav.Next()
	h.report(err)
	if !changed {
		h.grid.Refresh()
	}
}

// handle processes one event and reports whether to keep running.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.key(ev)
	case *tcell.EventMouse:
		h.mouse(ev)
	case *tcell.EventResize:
		h.screen.Sync()
		h.report(h.nav.Resize(h.grid.ViewSize()))
	}
	return true
}

func (h *Host) key(ev *tcell.EventKey) bool {
	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight, tcell.KeyPgDn, tcell.KeyEnter:
		if shift {
			h.report(h.nav.Pan(panStep, 0))
			return true
		}
		_, err := h.nav.Next()
		h.report(err)
	case tcell.KeyLeft, tcell.KeyPgUp, tcell.KeyBackspace, tcell.KeyBackspace2:
		if shift {
			h.report(h.nav.Pan(-panStep, 0))
			return true
		}
		_, err := h.nav.Prev()
		h.report(err)
	case tcell.KeyUp:
		h.report(h.nav.Pan(0, -panStep*cellHeight))
	case tcell.KeyDown:
		h.report(h.nav.Pan(0, panStep*cellHeight))
	case tcell.KeyRune:
		return h.letter(ev.Rune())
	}
	return true
}

func (h *Host) letter(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case 'n', ' ':
		_, err := h.nav.Next()
		h.report(err)
	case 'p':
		_, err := h.nav.Prev()
		h.report(err)
	// hjkl move the camera, so the content moves the other way.
	case 'h':
		h.report(h.nav.Pan(panStep, 0))
	case 'l':
		h.report(h.nav.Pan(-panStep, 0))
	case 'k':
		h.report(h.nav.Pan(0, panStep*cellHeight))
	case 'j':
		h.report(h.nav.Pan(0, -panStep*cellHeight))
	case '+', '=':
		h.report(h.nav.Zoom(zoomStep))
	case '-', '_':
		h.report(h.nav.Zoom(-zoomStep))
	}
	return true
}

func (h *Host) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		h.report(h.nav.Zoom(zoomStep))
	case buttons&tcell.WheelDown != 0:
		h.report(h.nav.Zoom(-zoomStep))
	case buttons&tcell.Button1 != 0:
		if h.dragging {
			dx, dy := x-h.dragX, y-h.dragY
			if dx != 0 || dy != 0 {
				h.report(h.nav.Pan(float64(dx), float64(dy*cellHeight)))
			}
		}
		h.dragging = true
		h.dragX, h.dragY = x, y
	default:
		h.dragging = false
	}
}

// report keeps the last error for the status line and repaints when the
// status changes.
func (h *Host) report(err error) {
	prev := h.lastErr
	h.lastErr = err
	if err != nil || prev != nil {
		h.grid.Refresh()
	}
}

func (h *Host) status() string {
	c := h.nav.Cursor()
	total := len(h.deck.Steps)
	sub := 0
	if c.Step < total {
		sub = len(h.deck.Steps[c.Step].SubSteps)
	}
	s := fmt.Sprintf(" step %d/%d  sub-step %d/%d  |  %s", c.Step+1, total, c.SubStep+1, sub, help)
	if h.lastErr != nil {
		s = fmt.Sprintf(" [!] %v", h.lastErr)
	}
	return s
}

func (h *Host) drawStatus() {
	w, sh := h.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	if h.lastErr != nil {
		style = style.Foreground(tcell.ColorRed)
	}
	text := []rune(h.status())
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		h.screen.SetContent(x, sh-1, r, nil, style)
	}
}
