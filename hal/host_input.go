package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

type hostPointer struct {
	ch chan PointerEvent

	down  bool
	lastX int
	lastY int
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 256)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// sample turns a polled button state and cursor position into edge and motion events.
// Motion is only reported while the button is held and the cursor actually moved.
func (p *hostPointer) sample(pressed bool, x, y int) {
	switch {
	case pressed && !p.down:
		p.down = true
		p.emit(PointerEvent{Kind: PointerDown, X: x, Y: y})
	case pressed && (x != p.lastX || y != p.lastY):
		p.emit(PointerEvent{Kind: PointerDrag, X: x, Y: y})
	case !pressed && p.down:
		p.down = false
		p.emit(PointerEvent{Kind: PointerUp, X: x, Y: y})
	}
	p.lastX, p.lastY = x, y
}

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}
