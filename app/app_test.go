package app

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"graphpaper/canvas"
	"graphpaper/hal"
	"graphpaper/paper"

	"github.com/davecgh/go-spew/spew"
)

type logRecorder struct {
	lines []string
}

func (l *logRecorder) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *logRecorder) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *logRecorder) contains(sub string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type fakeHAL struct {
	log   *logRecorder
	fb    hal.Framebuffer
	ptr   chan hal.PointerEvent
	keys  chan hal.KeyEvent
	ticks chan uint64
}

func newFakeHAL(w, h int) *fakeHAL {
	return &fakeHAL{
		log:   &logRecorder{},
		fb:    hal.NewFramebuffer(w, h),
		ptr:   make(chan hal.PointerEvent, 64),
		keys:  make(chan hal.KeyEvent, 8),
		ticks: make(chan uint64, 8),
	}
}

func (f *fakeHAL) Logger() hal.Logger           { return f.log }
func (f *fakeHAL) Display() hal.Display         { return f }
func (f *fakeHAL) Input() hal.Input             { return f }
func (f *fakeHAL) Time() hal.Time               { return f }
func (f *fakeHAL) Framebuffer() hal.Framebuffer { return f.fb }
func (f *fakeHAL) Keyboard() hal.Keyboard       { return f }
func (f *fakeHAL) Pointer() hal.Pointer         { return pointerSource(f.ptr) }
func (f *fakeHAL) Events() <-chan hal.KeyEvent  { return f.keys }
func (f *fakeHAL) Ticks() <-chan uint64         { return f.ticks }

func (f *fakeHAL) press(kind hal.PointerKind, x, y int) {
	f.ptr <- hal.PointerEvent{Kind: kind, X: x, Y: y}
}

type pointerSource chan hal.PointerEvent

func (p pointerSource) Events() <-chan hal.PointerEvent { return p }

func newTestApp(t *testing.T) (*App, *fakeHAL) {
	t.Helper()
	w, h := FramebufferSize(paper.DefaultGeometry())
	fh := newFakeHAL(w, h)
	a, err := New(fh, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	return a, fh
}

func step(t *testing.T, a *App) {
	t.Helper()
	if err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if a.Err() != nil {
		t.Fatalf("app halted: %v", a.Err())
	}
}

func strokeCount(l *canvas.List) int {
	ink := paper.DefaultStyle().StrokeColor
	n := 0
	for _, e := range l.Elements() {
		if ln, ok := e.(canvas.Line); ok && ln.Color == ink {
			n++
		}
	}
	return n
}

func readoutCount(l *canvas.List) int {
	red := paper.DefaultStyle().ReadoutColor
	n := 0
	for _, e := range l.Elements() {
		if tx, ok := e.(canvas.Text); ok && tx.Color == red {
			n++
		}
	}
	return n
}

func quantized(c color.RGBA) color.RGBA {
	r, g, b := hal.RGB888From565(hal.RGB565(c.R, c.G, c.B))
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func TestNewLogsGeometry(t *testing.T) {
	_, fh := newTestApp(t)
	if !fh.log.contains("canvas 830x650 axis=[-1,1] cell=325") {
		t.Fatalf("startup log missing geometry: %v", fh.log.lines)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	fh := newFakeHAL(100, 100)
	cfg := DefaultConfig()
	cfg.Geometry = paper.Geometry{Width: 80, Height: 40, AxisMin: 3, AxisMax: 3}
	if _, err := New(fh, cfg); !errors.Is(err, paper.ErrDegenerateGeometry) {
		t.Fatalf("got %v, want ErrDegenerateGeometry", err)
	}

	cfg = DefaultConfig()
	if _, err := New(fh, cfg); err == nil {
		t.Fatal("expected error for a framebuffer smaller than the canvas")
	}
}

func TestPointerStrokeUpdatesCanvasAndStatus(t *testing.T) {
	a, fh := newTestApp(t)

	fh.press(hal.PointerDown, 415, 325)
	step(t, a)
	if got := a.Status(); got != "X: 0.0, Y: 0.0" {
		t.Fatalf("status after down = %q", got)
	}

	fh.press(hal.PointerDrag, 740, 325)
	fh.press(hal.PointerUp, 740, 325)
	step(t, a)

	if got := a.Status(); got != "X: 1.0, Y: 0.0" {
		t.Fatalf("status after drag = %q", got)
	}
	if n := strokeCount(a.list); n != 1 {
		t.Fatalf("segments = %d, want 1\n%s", n, spew.Sdump(a.list.Elements()))
	}
	if _, _, ok := a.Surface().Stroking(); ok {
		t.Fatal("stroke still active after pointer up")
	}

	px := canvas.NewTarget(fh.fb, image.Rectangle{}).At(600, 325)
	if px != quantized(paper.DefaultStyle().StrokeColor) {
		t.Fatalf("stroke pixel = %v", px)
	}
}

func TestReadoutRemovedByTicks(t *testing.T) {
	a, fh := newTestApp(t)

	fh.ticks <- 1
	fh.press(hal.PointerDown, 100, 100)
	step(t, a)
	if n := readoutCount(a.list); n != 1 {
		t.Fatalf("readouts = %d, want 1", n)
	}

	fh.ticks <- 500
	step(t, a)
	if n := readoutCount(a.list); n != 1 {
		t.Fatalf("readout removed early: %d left", n)
	}

	fh.ticks <- 501
	step(t, a)
	if n := readoutCount(a.list); n != 0 {
		t.Fatalf("readouts = %d after 500ms", n)
	}
}

func TestResetButton(t *testing.T) {
	a, fh := newTestApp(t)

	fh.press(hal.PointerDown, 10, 10)
	fh.press(hal.PointerDrag, 60, 60)
	fh.press(hal.PointerUp, 60, 60)
	step(t, a)
	if strokeCount(a.list) != 1 {
		t.Fatal("expected one segment before reset")
	}

	b := a.bar.button
	cx, cy := b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2

	fh.press(hal.PointerDown, cx, cy)
	step(t, a)
	if strokeCount(a.list) != 1 {
		t.Fatal("reset fired on press instead of release")
	}
	if _, _, ok := a.Surface().Stroking(); ok {
		t.Fatal("button press started a stroke")
	}

	fh.press(hal.PointerUp, cx, cy)
	step(t, a)
	if n := strokeCount(a.list); n != 0 {
		t.Fatalf("segments after reset = %d", n)
	}
	if !fh.log.contains("app: reset") {
		t.Fatalf("reset not logged: %v", fh.log.lines)
	}
}

func TestResetButtonReleasedOutside(t *testing.T) {
	a, fh := newTestApp(t)

	fh.press(hal.PointerDown, 10, 10)
	fh.press(hal.PointerDrag, 60, 60)
	fh.press(hal.PointerUp, 60, 60)

	b := a.bar.button
	fh.press(hal.PointerDown, b.Min.X+1, b.Min.Y+1)
	fh.press(hal.PointerDrag, 5, 5)
	fh.press(hal.PointerUp, 5, 5)
	step(t, a)

	if n := strokeCount(a.list); n != 1 {
		t.Fatalf("segments = %d, want 1 (release outside the button must not reset)", n)
	}
}

func TestPressOnToolbarDoesNotDraw(t *testing.T) {
	a, fh := newTestApp(t)
	before := a.list.Len()

	fh.press(hal.PointerDown, 5, 655)
	fh.press(hal.PointerDrag, 50, 600)
	fh.press(hal.PointerUp, 50, 600)
	step(t, a)

	if a.list.Len() != before {
		t.Fatalf("toolbar press drew %d elements", a.list.Len()-before)
	}
}

func TestKeyboardReset(t *testing.T) {
	for _, ev := range []hal.KeyEvent{
		{Code: hal.KeyEscape, Press: true},
		{Rune: 'r', Press: true},
	} {
		a, fh := newTestApp(t)
		fh.press(hal.PointerDown, 10, 10)
		fh.press(hal.PointerDrag, 60, 60)
		step(t, a)

		fh.keys <- ev
		fh.press(hal.PointerDrag, 90, 90)
		step(t, a)

		if n := strokeCount(a.list); n != 0 {
			t.Fatalf("%+v: segments after reset = %d", ev, n)
		}
	}
}

func TestStepRedrawsOnlyWhenDirty(t *testing.T) {
	a, fh := newTestApp(t)

	buf := fh.fb.Buffer()
	buf[0], buf[1] = 0x12, 0x34
	step(t, a)
	if buf[0] != 0x12 || buf[1] != 0x34 {
		t.Fatal("idle step repainted the canvas")
	}

	// The readout label lands far from the corner; only its extent is copied.
	fh.press(hal.PointerDown, 400, 400)
	step(t, a)
	if buf[0] != 0x12 || buf[1] != 0x34 {
		t.Fatal("appending a label repainted the whole canvas")
	}

	fh.ticks <- 500
	step(t, a)
	if buf[0] == 0x12 && buf[1] == 0x34 {
		t.Fatal("canvas not repainted after the label expired")
	}
}

func TestLongStrokeFrameCost(t *testing.T) {
	a, fh := newTestApp(t)

	fh.press(hal.PointerDown, 100, 325)
	step(t, a)

	// 240 samples over 4 s of ticks: readouts expire while the stroke grows, so
	// late frames mix appends and full repaints over a few hundred elements.
	// Generous for slow CI and -race; a full-canvas rasterizer pass per element
	// costs seconds at this size.
	const budget = 250 * time.Millisecond
	var worst time.Duration
	for i := 1; i <= 240; i++ {
		fh.press(hal.PointerDrag, 100+i*2, 325+(i%20)-10)
		fh.ticks <- uint64(i * 16)
		start := time.Now()
		step(t, a)
		if d := time.Since(start); d > worst {
			worst = d
		}
	}

	if n := a.list.Len(); n < 200 {
		t.Fatalf("elements = %d, want a long stroke", n)
	}
	if worst > budget {
		t.Fatalf("slowest frame with %d elements took %v, budget %v", a.list.Len(), worst, budget)
	}
}

func TestPanicHaltsApp(t *testing.T) {
	a, fh := newTestApp(t)

	a.guard(func() { panic("boom") })

	if a.Err() == nil || !strings.Contains(a.Err().Error(), "boom") {
		t.Fatalf("Err() = %v", a.Err())
	}
	if !fh.log.contains("app: panic: boom") {
		t.Fatalf("panic not logged: %v", fh.log.lines)
	}

	before := a.list.Len()
	fh.press(hal.PointerDown, 10, 10)
	if err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if a.list.Len() != before {
		t.Fatal("halted app still handles input")
	}
}

func TestTakeRunes(t *testing.T) {
	cases := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"hello", 3, "hel", "lo"},
		{"hi", 5, "hi", ""},
		{"жжж", 2, "жж", "ж"},
		{"x", 0, "", "x"},
	}
	for _, c := range cases {
		head, tail := takeRunes(c.s, c.n)
		if head != c.head || tail != c.tail {
			t.Fatalf("takeRunes(%q, %d) = (%q, %q)", c.s, c.n, head, tail)
		}
	}
}

func TestToolbarRendersStatus(t *testing.T) {
	a, fh := newTestApp(t)
	tg := canvas.NewTarget(fh.fb, image.Rectangle{})

	// The button face sits in the middle of the toolbar.
	b := a.bar.button
	if got := tg.At(b.Min.X+2, b.Min.Y+2); got != quantized(colorButtonBG) {
		t.Fatalf("button face = %v", got)
	}
	if got := tg.At(2, a.bar.area.Min.Y+2); got != quantized(colorToolbarBG) {
		t.Fatalf("toolbar background = %v", got)
	}

	a.bar.SetStatus(a.bar.Status())
	if a.bar.dirty {
		t.Fatal("unchanged status marked the toolbar dirty")
	}
	a.bar.SetStatus("X: 0.5, Y: 0.5")
	if !a.bar.dirty {
		t.Fatal("new status did not mark the toolbar dirty")
	}
}
