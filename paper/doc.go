// Package paper implements the graph-paper drawing surface: a fixed canvas with a
// grid, centered axes with integer tick labels, freehand strokes, and a transient
// readout of the pointer position in axis units.
//
// The surface draws through a Canvas, defers work through a Scheduler and reports
// the readout through a Status. It keeps no global state.
package paper
