// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import "github.com/gogpu/gg"

// Default brush settings.
const (
	DefaultBrushWidth = 5.0
	DefaultBrushColor = Color("#000000")
)

// PencilBrush records freehand strokes and turns them into path objects.
//
// Color and Width are read when a stroke is committed, so changing them
// affects the next stroke only; committed paths keep their own colors.
type PencilBrush struct {
	Color Color
	Width float64

	points []gg.Point
	active bool
}

// NewPencilBrush creates a brush with the default width and color.
func NewPencilBrush() *PencilBrush {
	return &PencilBrush{Color: DefaultBrushColor, Width: DefaultBrushWidth}
}

// Begin starts a new stroke at p, discarding any unfinished one.
func (b *PencilBrush) Begin(p gg.Point) {
	b.points = append(b.points[:0], p)
	b.active = true
}

// Extend adds p to the current stroke. Consecutive duplicate points are
// dropped. Extend is a no-op when no stroke is in progress.
func (b *PencilBrush) Extend(p gg.Point) {
	if !b.active {
		return
	}
	if n := len(b.points); n > 0 && b.points[n-1] == p {
		return
	}
	b.points = append(b.points, p)
}

// Drawing reports whether a stroke is in progress.
func (b *PencilBrush) Drawing() bool {
	return b.active
}

// End finishes the stroke and returns it as a path object, or nil if the
// stroke had fewer than two distinct points.
func (b *PencilBrush) End() *Object {
	if !b.active {
		return nil
	}
	b.active = false
	pts := b.points
	b.points = nil
	if len(pts) < 2 {
		return nil
	}
	return NewPath(pts, b.Color, b.Width)
}

// Cancel drops the current stroke.
func (b *PencilBrush) Cancel() {
	b.active = false
	b.points = nil
}
