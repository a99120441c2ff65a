package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"graphpaper/canvas"
	"graphpaper/hal"
	"graphpaper/internal/buildinfo"
	"graphpaper/paper"
	"graphpaper/sched"
)

var colorPaper = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Config is the startup configuration.
type Config struct {
	Geometry paper.Geometry
	Style    paper.Style
}

// DefaultConfig returns the stock 830x650 canvas spanning [-1, 1].
func DefaultConfig() Config {
	return Config{Geometry: paper.DefaultGeometry(), Style: paper.DefaultStyle()}
}

// FramebufferSize returns the framebuffer needed for g: the canvas plus the toolbar.
func FramebufferSize(g paper.Geometry) (width, height int) {
	return g.Width, g.Height + ToolbarHeight
}

// App owns the drawing surface and routes host input to it.
type App struct {
	cfg Config
	log hal.Logger
	fb  hal.Framebuffer

	ticks   <-chan uint64
	pointer <-chan hal.PointerEvent
	keys    <-chan hal.KeyEvent

	list     *canvas.List
	sched    *sched.Scheduler
	surface  *paper.Surface
	renderer *canvas.Renderer
	bar      *toolbar
	barT     *canvas.Target

	presented  uint64
	neverDrawn bool
	drawing    bool
	onButton   bool
	halted     error
}

// New builds the app on h. The framebuffer must be at least FramebufferSize(cfg.Geometry).
func New(h hal.HAL, cfg Config) (*App, error) {
	if err := cfg.Geometry.Validate(); err != nil {
		return nil, err
	}

	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	if fb == nil {
		return nil, errors.New("app: no framebuffer")
	}
	g := cfg.Geometry
	if w, hh := FramebufferSize(g); fb.Width() < w || fb.Height() < hh {
		return nil, fmt.Errorf("app: framebuffer %dx%d smaller than %dx%d", fb.Width(), fb.Height(), w, hh)
	}

	a := &App{
		cfg:        cfg,
		log:        h.Logger(),
		fb:         fb,
		list:       canvas.NewList(),
		sched:      sched.New(time.Millisecond),
		neverDrawn: true,
	}
	if a.log == nil {
		a.log = discardLogger{}
	}
	if ht := h.Time(); ht != nil {
		a.ticks = ht.Ticks()
	}
	if in := h.Input(); in != nil {
		if p := in.Pointer(); p != nil {
			a.pointer = p.Events()
		}
		if k := in.Keyboard(); k != nil {
			a.keys = k.Events()
		}
	}

	canvasArea := image.Rect(0, 0, g.Width, g.Height)
	barArea := image.Rect(0, g.Height, fb.Width(), g.Height+ToolbarHeight)
	a.renderer = canvas.NewRenderer(fb, canvasArea, colorPaper)
	a.bar = newToolbar(barArea, cfg.Style.LabelFont)
	a.barT = canvas.NewTarget(fb, barArea)

	s, err := paper.New(g, cfg.Style, a.list, a.sched, a.bar)
	if err != nil {
		return nil, err
	}
	a.surface = s

	a.logf("graphpaper %s: canvas %s", buildinfo.Long(), g)
	return a, nil
}

// Surface returns the drawing surface.
func (a *App) Surface() *paper.Surface { return a.surface }

// Status returns the current status line.
func (a *App) Status() string { return a.bar.Status() }

// Err returns the panic that halted the app, if any.
func (a *App) Err() error { return a.halted }

// Reset clears the drawing and restores the grid.
func (a *App) Reset() {
	a.surface.Reset()
	a.logf("app: reset")
}

// Step advances timers, handles pending input and redraws what changed.
// It never blocks; the host calls it once per frame.
func (a *App) Step() error {
	if a.halted != nil {
		return nil
	}
	a.guard(func() {
		a.drainTicks()
		a.drainKeys()
		a.drainPointer()
		a.present()
	})
	return nil
}

func (a *App) drainTicks() {
	for {
		select {
		case seq, ok := <-a.ticks:
			if !ok {
				a.ticks = nil
				return
			}
			a.sched.AdvanceTo(seq)
		default:
			return
		}
	}
}

func (a *App) drainKeys() {
	for {
		select {
		case ev, ok := <-a.keys:
			if !ok {
				a.keys = nil
				return
			}
			a.handleKey(ev)
		default:
			return
		}
	}
}

func (a *App) drainPointer() {
	for {
		select {
		case ev, ok := <-a.pointer:
			if !ok {
				a.pointer = nil
				return
			}
			a.handlePointer(ev)
		default:
			return
		}
	}
}

func (a *App) handleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	switch {
	case ev.Code == hal.KeyEscape, ev.Rune == 'r', ev.Rune == 'R':
		a.Reset()
	}
}

func (a *App) handlePointer(ev hal.PointerEvent) {
	switch ev.Kind {
	case hal.PointerDown:
		if a.bar.hitReset(ev.X, ev.Y) {
			a.onButton = true
			a.bar.setPressed(true)
			return
		}
		if !image.Pt(ev.X, ev.Y).In(a.renderer.Target().Bounds()) {
			return
		}
		a.drawing = true
		a.surface.StrokeStart(ev.X, ev.Y)
	case hal.PointerDrag:
		if a.onButton {
			a.bar.setPressed(a.bar.hitReset(ev.X, ev.Y))
			return
		}
		if a.drawing {
			a.surface.StrokeDrag(ev.X, ev.Y)
		}
	case hal.PointerUp:
		if a.onButton {
			a.onButton = false
			a.bar.setPressed(false)
			if a.bar.hitReset(ev.X, ev.Y) {
				a.Reset()
			}
			return
		}
		if a.drawing {
			a.drawing = false
			a.surface.StrokeEnd(ev.X, ev.Y)
		}
	}
}

func (a *App) present() {
	dirty := false
	if v := a.list.Version(); v != a.presented || a.neverDrawn {
		a.renderer.Render(a.list)
		a.presented = v
		a.neverDrawn = false
		dirty = true
	}
	if a.bar.dirty {
		a.bar.render(a.barT)
		dirty = true
	}
	if dirty {
		_ = a.fb.Present()
	}
}

func (a *App) logf(format string, args ...any) {
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}

type discardLogger struct{}

func (discardLogger) WriteLineString(string) {}
func (discardLogger) WriteLineBytes([]byte)  {}
