package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"graphpaper/hal"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Renderer paints a List onto a region of a framebuffer.
//
// Elements are composed in an RGBA back buffer and copied out as RGB565. Each
// element is rasterized into a sub-image bounded by its own extent, so a short
// stroke segment costs a few hundred pixels regardless of the canvas size.
type Renderer struct {
	t    *Target
	back *image.RGBA
	bg   color.RGBA

	scanner *rasterx.ScannerGV
	stroker *rasterx.Stroker
	filler  *rasterx.Filler

	// What of the list is already in back.
	painted  int
	removals uint64
	valid    bool
}

// NewRenderer returns a renderer for the area of fb (clipped to the framebuffer),
// painting bg underneath every element.
func NewRenderer(fb hal.Framebuffer, area image.Rectangle, bg color.RGBA) *Renderer {
	t := NewTarget(fb, area)
	back := image.NewRGBA(t.Bounds())
	scanner := rasterx.NewScannerGV(1, 1, back, back.Rect)
	return &Renderer{
		t:       t,
		back:    back,
		bg:      bg,
		scanner: scanner,
		stroker: rasterx.NewStroker(1, 1, scanner),
		filler:  rasterx.NewFiller(1, 1, scanner),
	}
}

// Target returns the framebuffer region the renderer paints into.
func (r *Renderer) Target() *Target { return r.t }

// Render brings the area up to date with l. Elements appended since the last
// call are drawn over what is already there and only their extent is copied to
// the framebuffer; any removal repaints the whole area. It does not present.
func (r *Renderer) Render(l *List) {
	if !r.valid || l.removals != r.removals || len(l.items) < r.painted {
		draw.Draw(r.back, r.back.Rect, image.NewUniform(r.bg), image.Point{}, draw.Src)
		for _, e := range l.items {
			r.paint(e.s)
		}
		r.t.CopyFrom(r.back, r.back.Rect)
	} else {
		var dirty image.Rectangle
		for _, e := range l.items[r.painted:] {
			dirty = dirty.Union(r.paint(e.s))
		}
		r.t.CopyFrom(r.back, dirty)
	}

	r.painted = len(l.items)
	r.removals = l.removals
	r.valid = true
}

// paint draws s into the back buffer and returns the rectangle it may have touched.
func (r *Renderer) paint(s Shape) image.Rectangle {
	switch s := s.(type) {
	case Line:
		return r.line(s)
	case Oval:
		return r.oval(s)
	case Text:
		return r.text(s)
	}
	return image.Rectangle{}
}

// Shapes are placed on pixel centers so that an integer coordinate with width 1
// covers exactly one pixel column or row.
const pixelCenter = 0.5

// extent returns the pixel box covering (x0,y0)-(x1,y1) grown by pad, clipped
// to the back buffer.
func (r *Renderer) extent(x0, y0, x1, y1, pad float64) image.Rectangle {
	box := image.Rect(
		int(math.Floor(math.Min(x0, x1)+pixelCenter-pad)),
		int(math.Floor(math.Min(y0, y1)+pixelCenter-pad)),
		int(math.Ceil(math.Max(x0, x1)+pixelCenter+pad)),
		int(math.Ceil(math.Max(y0, y1)+pixelCenter+pad)),
	)
	return box.Intersect(r.back.Rect)
}

// begin points the scanner at the box sub-image and sizes the rasterizer to it.
func (r *Renderer) begin(f *rasterx.Filler, box image.Rectangle, c color.RGBA) {
	r.scanner.Dest = r.back.SubImage(box).(*image.RGBA)
	f.SetBounds(box.Dx(), box.Dy())
	r.scanner.SetColor(c)
}

// toFixed maps (x, y) into rasterizer coordinates local to box.
func toFixed(box image.Rectangle, x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6((x - float64(box.Min.X) + pixelCenter) * 64),
		Y: fixed.Int26_6((y - float64(box.Min.Y) + pixelCenter) * 64),
	}
}

func (r *Renderer) line(s Line) image.Rectangle {
	w := s.Width
	if w <= 0 {
		w = 1
	}
	box := r.extent(s.X0, s.Y0, s.X1, s.Y1, w/2+1)
	if box.Empty() {
		return box
	}
	r.begin(&r.stroker.Filler, box, s.Color)
	r.stroker.SetStroke(fixed.Int26_6(w*64), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Round)
	r.stroker.Start(toFixed(box, s.X0, s.Y0))
	r.stroker.Line(toFixed(box, s.X1, s.Y1))
	r.stroker.Stop(false)
	r.stroker.Draw()
	return box
}

func (r *Renderer) oval(s Oval) image.Rectangle {
	rx := (s.X1 - s.X0) / 2
	ry := (s.Y1 - s.Y0) / 2
	if rx <= 0 || ry <= 0 {
		return image.Rectangle{}
	}
	box := r.extent(s.X0, s.Y0, s.X1, s.Y1, 1)
	if box.Empty() {
		return box
	}
	r.begin(r.filler, box, s.Fill)
	cx := s.X0 + rx - float64(box.Min.X) + pixelCenter
	cy := s.Y0 + ry - float64(box.Min.Y) + pixelCenter
	rasterx.AddEllipse(cx, cy, rx, ry, 0, r.filler)
	r.filler.Draw()
	return box
}

func (r *Renderer) text(s Text) image.Rectangle {
	if s.Font == nil || s.Text == "" {
		return image.Rectangle{}
	}
	_, outbox := tinyfont.LineWidth(s.Font, s.Text)
	adv := int16(s.Font.GetYAdvance())
	x := roundInt16(s.X) - int16(outbox/2)
	y := roundInt16(s.Y) + adv/2 - 1
	tinyfont.WriteLine(backDisplay{r.back}, s.Font, x, y, s.Text, s.Color)

	box := image.Rect(int(x)-1, int(y-adv)-1, int(x)+int(outbox)+1, int(y+adv)+1)
	return box.Intersect(r.back.Rect)
}

func roundInt16(v float64) int16 {
	if v < 0 {
		return int16(v - 0.5)
	}
	return int16(v + 0.5)
}

// backDisplay lets tinyfont write into the back buffer.
type backDisplay struct {
	img *image.RGBA
}

func (d backDisplay) Size() (x, y int16) {
	return int16(d.img.Rect.Max.X), int16(d.img.Rect.Max.Y)
}

func (d backDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.img.SetRGBA(int(x), int(y), c)
}

func (d backDisplay) Display() error { return nil }

var _ drivers.Displayer = backDisplay{}
