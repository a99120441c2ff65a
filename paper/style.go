package paper

import (
	"image/color"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Style holds the colors, stroke widths, fonts and offsets of everything the surface draws.
type Style struct {
	GridColor color.RGBA
	GridWidth float64

	AxisColor color.RGBA
	AxisWidth float64

	TickColor   color.RGBA
	TickRadius  float64
	LabelOffset float64
	LabelFont   tinyfont.Fonter

	StrokeColor color.RGBA
	StrokeWidth float64

	ReadoutColor    color.RGBA
	ReadoutFont     tinyfont.Fonter
	ReadoutOffsetX  float64
	ReadoutOffsetY  float64
	ReadoutLifetime time.Duration
}

var (
	colorGrid    = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	colorAxis    = color.RGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF}
	colorInk     = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	colorReadout = color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
)

// DefaultStyle returns the stock look: light grey grid, blue axes, black ink,
// red readout that disappears after 500ms.
func DefaultStyle() Style {
	return Style{
		GridColor: colorGrid,
		GridWidth: 1,

		AxisColor: colorAxis,
		AxisWidth: 2,

		TickColor:   colorInk,
		TickRadius:  2,
		LabelOffset: 15,
		LabelFont:   &proggy.TinySZ8pt7b,

		StrokeColor: colorInk,
		StrokeWidth: 2,

		ReadoutColor:    colorReadout,
		ReadoutFont:     &proggy.TinySZ8pt7b,
		ReadoutOffsetX:  20,
		ReadoutOffsetY:  -10,
		ReadoutLifetime: 500 * time.Millisecond,
	}
}
