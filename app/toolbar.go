package app

import (
	"image"
	"image/color"

	"graphpaper/canvas"

	"tinygo.org/x/tinyfont"
)

// ToolbarHeight is the strip below the canvas holding the status line and the Reset button.
const ToolbarHeight = 44

const (
	buttonWidth  = 64
	buttonHeight = 18
	statusRow    = 4
	buttonRow    = 22
)

var (
	colorToolbarBG = color.RGBA{R: 0xD9, G: 0xD9, B: 0xD9, A: 0xFF}
	colorButtonBG  = color.RGBA{R: 0xEC, G: 0xEC, B: 0xEC, A: 0xFF}
	colorButtonHi  = color.RGBA{R: 0xC4, G: 0xC4, B: 0xC4, A: 0xFF}
	colorButtonRim = color.RGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xFF}
	colorText      = color.RGBA{A: 0xFF}
)

// toolbar is the status readout plus the Reset button. It implements paper.Status.
type toolbar struct {
	area    image.Rectangle
	button  image.Rectangle
	font    tinyfont.Fonter
	status  string
	pressed bool
	dirty   bool
}

func newToolbar(area image.Rectangle, font tinyfont.Fonter) *toolbar {
	cx := area.Min.X + area.Dx()/2
	top := area.Min.Y + buttonRow
	return &toolbar{
		area:   area,
		button: image.Rect(cx-buttonWidth/2, top, cx+buttonWidth/2, top+buttonHeight),
		font:   font,
		status: "X: 0.0, Y: 0.0",
		dirty:  true,
	}
}

func (tb *toolbar) SetStatus(s string) {
	if s == tb.status {
		return
	}
	tb.status = s
	tb.dirty = true
}

func (tb *toolbar) Status() string { return tb.status }

func (tb *toolbar) hitReset(x, y int) bool {
	return image.Pt(x, y).In(tb.button)
}

func (tb *toolbar) setPressed(v bool) {
	if v == tb.pressed {
		return
	}
	tb.pressed = v
	tb.dirty = true
}

func (tb *toolbar) render(t *canvas.Target) {
	a := tb.area
	_ = t.FillRectangle(int16(a.Min.X), int16(a.Min.Y), int16(a.Dx()), int16(a.Dy()), colorToolbarBG)
	tb.drawCentered(t, a.Min.X+a.Dx()/2, a.Min.Y+statusRow, tb.status)

	b := tb.button
	_ = t.FillRectangle(int16(b.Min.X), int16(b.Min.Y), int16(b.Dx()), int16(b.Dy()), colorButtonRim)
	face := colorButtonBG
	if tb.pressed {
		face = colorButtonHi
	}
	_ = t.FillRectangle(int16(b.Min.X+1), int16(b.Min.Y+1), int16(b.Dx()-2), int16(b.Dy()-2), face)
	if tb.font != nil {
		tb.drawCentered(t, b.Min.X+b.Dx()/2, b.Min.Y+(b.Dy()-int(tb.font.GetYAdvance()))/2, "Reset")
	}

	tb.dirty = false
}

// drawCentered writes s horizontally centered on cx with its line box starting at top.
func (tb *toolbar) drawCentered(t *canvas.Target, cx, top int, s string) {
	if tb.font == nil || s == "" {
		return
	}
	_, w := tinyfont.LineWidth(tb.font, s)
	baseline := top + int(tb.font.GetYAdvance()) - 2
	tinyfont.WriteLine(t, tb.font, int16(cx-int(w)/2), int16(baseline), s, colorText)
}
