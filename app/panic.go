package app

import (
	"fmt"
	"image"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"graphpaper/canvas"

	"tinygo.org/x/tinyfont"
)

// guard runs fn and turns a panic into a halted app: the panic and its stack are
// logged and painted over the framebuffer, and later steps stop handling input.
func (a *App) guard(fn func()) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		a.halted = fmt.Errorf("app: panic: %v", v)
		a.showPanic(v, debug.Stack())
	}()
	fn()
}

func (a *App) showPanic(v any, stack []byte) {
	lines := []string{
		"graphpaper panic:",
		fmt.Sprintf("panic: %v", v),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, line)
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	a.logf("app: panic: %v", v)
	for _, line := range lines[2:] {
		a.log.WriteLineString(line)
	}

	fb := a.fb
	fb.ClearRGB(255, 255, 255)
	t := canvas.NewTarget(fb, image.Rectangle{})

	font := a.cfg.Style.LabelFont
	if font == nil {
		_ = fb.Present()
		return
	}
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	fontHeight := int16(font.GetYAdvance())
	if fontWidth <= 0 || fontHeight <= 0 {
		_ = fb.Present()
		return
	}

	fg := color.RGBA{A: 255}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if int(y+fontHeight) > fb.Height() {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(t, font, 0, y+fontHeight-2, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
