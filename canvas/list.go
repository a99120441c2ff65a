// Package canvas holds the retained set of drawn elements and paints it onto a framebuffer.
package canvas

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// ID identifies a drawn element. IDs are never reused by a List.
type ID uint32

// Shape is a drawn primitive: Line, Oval or Text.
type Shape interface {
	shape()
}

// Line is a straight segment stroked with butt caps.
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	Color          color.RGBA
}

// Oval is a filled ellipse inscribed in the box (X0,Y0)-(X1,Y1).
type Oval struct {
	X0, Y0, X1, Y1 float64
	Fill           color.RGBA
}

// Text is a single line of text centered on (X, Y).
type Text struct {
	X, Y  float64
	Text  string
	Font  tinyfont.Fonter
	Color color.RGBA
}

func (Line) shape() {}
func (Oval) shape() {}
func (Text) shape() {}

type entry struct {
	id ID
	s  Shape
}

// List is an ordered display list. The zero value is ready to use.
type List struct {
	items    []entry
	next     ID
	version  uint64
	removals uint64
}

// NewList returns an empty display list.
func NewList() *List {
	return &List{}
}

func (l *List) add(s Shape) ID {
	l.next++
	l.items = append(l.items, entry{id: l.next, s: s})
	l.version++
	return l.next
}

// DrawLine appends a line segment.
func (l *List) DrawLine(x0, y0, x1, y1, width float64, c color.RGBA) ID {
	return l.add(Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c})
}

// DrawOval appends a filled oval bounded by (x0,y0)-(x1,y1).
func (l *List) DrawOval(x0, y0, x1, y1 float64, fill color.RGBA) ID {
	return l.add(Oval{X0: x0, Y0: y0, X1: x1, Y1: y1, Fill: fill})
}

// DrawText appends a text label centered on (x, y).
func (l *List) DrawText(x, y float64, s string, font tinyfont.Fonter, c color.RGBA) ID {
	return l.add(Text{X: x, Y: y, Text: s, Font: font, Color: c})
}

// Delete removes the element with the given id. Unknown ids are ignored.
func (l *List) Delete(id ID) {
	for i := range l.items {
		if l.items[i].id != id {
			continue
		}
		copy(l.items[i:], l.items[i+1:])
		l.items[len(l.items)-1] = entry{}
		l.items = l.items[:len(l.items)-1]
		l.version++
		l.removals++
		return
	}
}

// DeleteAll removes every element. IDs keep counting up.
func (l *List) DeleteAll() {
	for i := range l.items {
		l.items[i] = entry{}
	}
	l.items = l.items[:0]
	l.version++
	l.removals++
}

// Contains reports whether id is still drawn.
func (l *List) Contains(id ID) bool {
	for _, e := range l.items {
		if e.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of drawn elements.
func (l *List) Len() int { return len(l.items) }

// Version changes whenever the list is mutated.
func (l *List) Version() uint64 { return l.version }

// Elements returns a copy of the drawn shapes in draw order.
func (l *List) Elements() []Shape {
	out := make([]Shape, len(l.items))
	for i, e := range l.items {
		out[i] = e.s
	}
	return out
}
