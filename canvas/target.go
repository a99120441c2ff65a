package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"graphpaper/hal"

	"tinygo.org/x/drivers"
)

// Target exposes a clipped region of an RGB565 framebuffer both as a draw.Image
// and as a drivers.Displayer (for tinyfont).
//
// Coordinates are framebuffer coordinates; writes outside the clip are dropped.
type Target struct {
	fb   hal.Framebuffer
	clip image.Rectangle
}

// NewTarget returns a target for fb clipped to r. An empty r means the whole framebuffer.
func NewTarget(fb hal.Framebuffer, r image.Rectangle) *Target {
	full := image.Rect(0, 0, fb.Width(), fb.Height())
	if r.Empty() {
		r = full
	}
	return &Target{fb: fb, clip: r.Intersect(full)}
}

func (t *Target) ColorModel() color.Model { return color.RGBAModel }

func (t *Target) Bounds() image.Rectangle { return t.clip }

func (t *Target) offset(x, y int) (int, bool) {
	if t.fb.Format() != hal.PixelFormatRGB565 {
		return 0, false
	}
	if !(image.Point{X: x, Y: y}).In(t.clip) {
		return 0, false
	}
	off := y*t.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(t.fb.Buffer()) {
		return 0, false
	}
	return off, true
}

func (t *Target) At(x, y int) color.Color {
	off, ok := t.offset(x, y)
	if !ok {
		return color.RGBA{}
	}
	buf := t.fb.Buffer()
	r, g, b := hal.RGB888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func (t *Target) Set(x, y int, c color.Color) {
	off, ok := t.offset(x, y)
	if !ok {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	pixel := hal.RGB565(rgba.R, rgba.G, rgba.B)
	buf := t.fb.Buffer()
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (t *Target) Size() (x, y int16) {
	return int16(t.fb.Width()), int16(t.fb.Height())
}

func (t *Target) SetPixel(x, y int16, c color.RGBA) {
	t.Set(int(x), int(y), c)
}

func (t *Target) Display() error {
	return t.fb.Present()
}

func (t *Target) SetRotation(drivers.Rotation) error { return nil }

// FillRectangle paints an opaque rectangle, clipped to the target.
func (t *Target) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(t.clip)
	if r.Empty() || t.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	buf := t.fb.Buffer()
	stride := t.fb.StrideBytes()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := py * stride
		for px := r.Min.X; px < r.Max.X; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

// CopyFrom converts the r region of src to RGB565, clipped to the target.
func (t *Target) CopyFrom(src *image.RGBA, r image.Rectangle) {
	r = r.Intersect(t.clip).Intersect(src.Rect)
	if r.Empty() || t.fb.Format() != hal.PixelFormatRGB565 {
		return
	}

	buf := t.fb.Buffer()
	stride := t.fb.StrideBytes()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		s := src.PixOffset(r.Min.X, y)
		d := y*stride + r.Min.X*2
		for x := r.Min.X; x < r.Max.X; x++ {
			if d < 0 || d+1 >= len(buf) {
				break
			}
			pixel := hal.RGB565(src.Pix[s], src.Pix[s+1], src.Pix[s+2])
			buf[d] = byte(pixel)
			buf[d+1] = byte(pixel >> 8)
			s += 4
			d += 2
		}
	}
}

var (
	_ drivers.Displayer = (*Target)(nil)
	_ draw.Image        = (*Target)(nil)
)
