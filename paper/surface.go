package paper

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"graphpaper/canvas"

	"tinygo.org/x/tinyfont"
)

// Canvas is the drawing capability the surface renders into.
type Canvas interface {
	DrawLine(x0, y0, x1, y1, width float64, c color.RGBA) canvas.ID
	DrawOval(x0, y0, x1, y1 float64, fill color.RGBA) canvas.ID
	DrawText(x, y float64, s string, font tinyfont.Fonter, c color.RGBA) canvas.ID
	Delete(id canvas.ID)
	DeleteAll()
}

// Scheduler runs a one-shot callback after a delay.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Status receives the persistent coordinate readout.
type Status interface {
	SetStatus(s string)
}

// Surface is the graph-paper drawing surface.
type Surface struct {
	geom  Geometry
	style Style
	cell  int

	c      Canvas
	sched  Scheduler
	status Status

	// Last sampled pixel of the stroke in progress.
	stroking     bool
	lastX, lastY float64
}

// New validates g, draws the grid, axes and tick labels onto c, and returns a
// surface with no stroke in progress. status may be nil.
func New(g Geometry, style Style, c Canvas, s Scheduler, status Status) (*Surface, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if c == nil || s == nil {
		return nil, errors.New("paper: canvas and scheduler are required")
	}
	sf := &Surface{
		geom:   g,
		style:  style,
		cell:   g.CellSize(),
		c:      c,
		sched:  s,
		status: status,
	}
	sf.renderBackground()
	return sf, nil
}

// Geometry returns the surface's geometry.
func (s *Surface) Geometry() Geometry { return s.geom }

// CellSize returns the pixel length of one axis unit.
func (s *Surface) CellSize() int { return s.cell }

// Stroking returns the last sampled pixel of the stroke in progress, if any.
func (s *Surface) Stroking() (x, y float64, ok bool) {
	return s.lastX, s.lastY, s.stroking
}

// PixelToLogical maps a pixel position to axis units.
func (s *Surface) PixelToLogical(px, py float64) (x, y float64) {
	return s.geom.PixelToLogical(px, py)
}

// StrokeStart begins a stroke at a pixel position and updates the readout.
func (s *Surface) StrokeStart(px, py int) {
	s.stroking = true
	s.lastX, s.lastY = float64(px), float64(py)
	s.updateReadout(s.PixelToLogical(s.lastX, s.lastY))
}

// StrokeDrag extends the stroke in progress to a pixel position. Without a stroke
// in progress it does nothing.
func (s *Surface) StrokeDrag(px, py int) {
	if !s.stroking {
		return
	}
	x, y := float64(px), float64(py)
	s.c.DrawLine(s.lastX, s.lastY, x, y, s.style.StrokeWidth, s.style.StrokeColor)
	s.updateReadout(s.PixelToLogical(x, y))
	s.lastX, s.lastY = x, y
}

// StrokeEnd terminates the stroke in progress. The release position is not drawn.
func (s *Surface) StrokeEnd(_, _ int) {
	s.stroking = false
}

// Reset erases every drawn element, redraws the background and drops any stroke in
// progress, so the next drag cannot connect to a pre-reset position.
func (s *Surface) Reset() {
	s.c.DeleteAll()
	s.stroking = false
	s.renderBackground()
}

// updateReadout publishes the logical position to the status line and places a
// short-lived label next to the last sampled pixel.
func (s *Surface) updateReadout(x, y float64) {
	if s.status != nil {
		s.status.SetStatus(fmt.Sprintf("X: %.1f, Y: %.1f", x, y))
	}

	id := s.c.DrawText(
		s.lastX+s.style.ReadoutOffsetX, s.lastY+s.style.ReadoutOffsetY,
		fmt.Sprintf("(%.1f, %.1f)", x, y),
		s.style.ReadoutFont, s.style.ReadoutColor,
	)
	c := s.c
	s.sched.After(s.style.ReadoutLifetime, func() { c.Delete(id) })
}

func (s *Surface) renderBackground() {
	s.renderGrid()
	s.renderAxes()
	s.renderAxisLabels()
}

func (s *Surface) renderGrid() {
	w, h := float64(s.geom.Width), float64(s.geom.Height)
	for x := 0; x < s.geom.Width; x += s.cell {
		s.c.DrawLine(float64(x), 0, float64(x), h, s.style.GridWidth, s.style.GridColor)
	}
	for y := 0; y < s.geom.Height; y += s.cell {
		s.c.DrawLine(0, float64(y), w, float64(y), s.style.GridWidth, s.style.GridColor)
	}
}

func (s *Surface) renderAxes() {
	mx, my := s.geom.Mid()
	w, h := float64(s.geom.Width), float64(s.geom.Height)
	s.c.DrawLine(float64(mx), 0, float64(mx), h, s.style.AxisWidth, s.style.AxisColor)
	s.c.DrawLine(0, float64(my), w, float64(my), s.style.AxisWidth, s.style.AxisColor)
}

func (s *Surface) renderAxisLabels() {
	mx, my := s.geom.Mid()
	midX, midY := float64(mx), float64(my)
	off := s.style.LabelOffset

	for i := s.geom.AxisMin; i <= s.geom.AxisMax; i++ {
		if i == 0 {
			continue
		}
		x := midX + float64(i*s.cell)
		s.c.DrawText(x, midY+off, strconv.Itoa(i), s.style.LabelFont, s.style.TickColor)
		s.dot(x, midY)
	}
	for i := s.geom.AxisMin; i <= s.geom.AxisMax; i++ {
		if i == 0 {
			continue
		}
		y := midY - float64(i*s.cell)
		s.c.DrawText(midX-off, y, strconv.Itoa(i), s.style.LabelFont, s.style.TickColor)
		s.dot(midX, y)
	}
}

func (s *Surface) dot(x, y float64) {
	r := s.style.TickRadius
	s.c.DrawOval(x-r, y-r, x+r, y+r, s.style.TickColor)
}
