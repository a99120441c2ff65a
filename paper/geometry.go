package paper

import (
	"errors"
	"fmt"
)

// ErrDegenerateGeometry is wrapped by every Geometry validation failure.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Geometry is the fixed canvas size in pixels and the logical axis range.
type Geometry struct {
	Width   int
	Height  int
	AxisMin int
	AxisMax int
}

// DefaultGeometry is an 830x650 canvas spanning [-1, 1] on both axes.
func DefaultGeometry() Geometry {
	return Geometry{Width: 830, Height: 650, AxisMin: -1, AxisMax: 1}
}

// Validate reports whether the geometry yields a grid cell of at least one pixel.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("paper: canvas %dx%d: %w", g.Width, g.Height, ErrDegenerateGeometry)
	}
	if g.AxisMax-g.AxisMin < 1 {
		return fmt.Errorf("paper: axis range [%d, %d] spans no unit: %w", g.AxisMin, g.AxisMax, ErrDegenerateGeometry)
	}
	if g.CellSize() < 1 {
		return fmt.Errorf("paper: axis range [%d, %d] on %dx%d leaves cells under one pixel: %w",
			g.AxisMin, g.AxisMax, g.Width, g.Height, ErrDegenerateGeometry)
	}
	return nil
}

// CellSize is the pixel length of one axis unit: min(Width, Height) / (AxisMax - AxisMin),
// rounded down. It is 0 for a range that spans no unit.
func (g Geometry) CellSize() int {
	span := g.AxisMax - g.AxisMin
	if span < 1 {
		return 0
	}
	return min(g.Width, g.Height) / span
}

// Mid returns the integer pixel midpoints where the axes are drawn.
func (g Geometry) Mid() (x, y int) {
	return g.Width / 2, g.Height / 2
}

// Center returns the exact pixel center used by the coordinate transform.
func (g Geometry) Center() (x, y float64) {
	return float64(g.Width) / 2, float64(g.Height) / 2
}

// PixelToLogical maps a pixel position to axis units. Logical Y grows upward.
func (g Geometry) PixelToLogical(px, py float64) (x, y float64) {
	cx, cy := g.Center()
	cell := float64(g.CellSize())
	return (px - cx) / cell, (cy - py) / cell
}

// LogicalToPixel is the inverse of PixelToLogical.
func (g Geometry) LogicalToPixel(x, y float64) (px, py float64) {
	cx, cy := g.Center()
	cell := float64(g.CellSize())
	return cx + x*cell, cy - y*cell
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d axis=[%d,%d] cell=%d", g.Width, g.Height, g.AxisMin, g.AxisMax, g.CellSize())
}
