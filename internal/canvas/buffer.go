// Package canvas buffers the drawer's in-progress gesture before it is
// committed to shared state. Coordinates are normalized against the
// capturing surface at sample time; the surface's dimensions never travel
// with the stroke, so this is the only place they are known.
package canvas

import "github.com/Peppermint995/Scrbbl-Clone/internal/room"

type Buffer struct {
	surfaceW float64
	surfaceH float64
	open     *room.Stroke
}

// NewBuffer starts with a surface of the given pixel dimensions.
func NewBuffer(w, h float64) *Buffer {
	b := &Buffer{}
	b.SetSurface(w, h)
	return b
}

// SetSurface records the current drawing-surface size. Subsequent samples
// normalize against it.
func (b *Buffer) SetSurface(w, h float64) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	b.surfaceW = w
	b.surfaceH = h
}

// Begin opens a new stroke at the given pixel position. Any stroke still
// open is discarded; the caller is expected to End before Begin.
func (b *Buffer) Begin(color string, size int, x, y float64) {
	if size < room.BrushMin {
		size = room.BrushMin
	}
	if size > room.BrushMax {
		size = room.BrushMax
	}
	b.open = &room.Stroke{
		Color:  color,
		Size:   size,
		Points: []room.Point{b.normalize(x, y)},
	}
}

// Extend appends a sample to the open stroke. No-op when nothing is open.
func (b *Buffer) Extend(x, y float64) {
	if b.open == nil {
		return
	}
	b.open.Points = append(b.open.Points, b.normalize(x, y))
}

// End finalizes the open stroke and returns it for submission. The second
// return is false when no stroke was open.
func (b *Buffer) End() (room.Stroke, bool) {
	if b.open == nil {
		return room.Stroke{}, false
	}
	s := *b.open
	b.open = nil
	return s, true
}

// Open returns a copy of the in-flight stroke for optimistic overlay.
func (b *Buffer) Open() (room.Stroke, bool) {
	if b.open == nil {
		return room.Stroke{}, false
	}
	s := *b.open
	s.Points = append([]room.Point(nil), b.open.Points...)
	return s, true
}

func (b *Buffer) normalize(x, y float64) room.Point {
	return room.Point{X: clamp01(x / b.surfaceW), Y: clamp01(y / b.surfaceH)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
