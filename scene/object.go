// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"math"
	"slices"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// Kind identifies the category of a scene object.
type Kind string

// Object kinds. The string values match the type names used by browser
// canvas libraries so scripts and logs read the same.
const (
	KindCircle   Kind = "circle"
	KindRect     Kind = "rect"
	KindTriangle Kind = "triangle"
	KindText     Kind = "i-text"
	KindImage    Kind = "image"
	KindPath     Kind = "path"
)

// FillColored reports whether recoloring an object of this kind changes its
// fill. Every other kind is recolored through its stroke.
func (k Kind) FillColored() bool {
	switch k {
	case KindText, KindCircle, KindRect, KindTriangle:
		return true
	}
	return false
}

// Shadow is a drop shadow painted behind an object.
type Shadow struct {
	Color   Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Rect is an axis-aligned rectangle in scene coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's center point.
func (r Rect) Center() gg.Point {
	return gg.Pt(r.X+r.W/2, r.Y+r.H/2)
}

// Object is a drawable element of the scene graph.
//
// Left and Top place the top-left corner of the object's bounding box,
// stroke included. Geometry fields are interpreted per Kind:
// Radius for circles, Width/Height for rects, triangles and images,
// Text/FontFamily/FontSize for text (Width/Height are measured by the scene),
// Points for paths (relative to the path's own origin).
type Object struct {
	ID   uuid.UUID
	Kind Kind
	Name string

	Left, Top      float64
	ScaleX, ScaleY float64

	Fill        Color
	Stroke      Color
	StrokeWidth float64
	Shadow      *Shadow

	Selectable  bool
	HasControls bool

	Radius        float64
	Width, Height float64

	Text       string
	FontFamily string
	FontSize   float64

	Image  *gg.ImageBuf
	Source string

	Points []gg.Point
}

func newObject(kind Kind) *Object {
	return &Object{
		ID:          uuid.New(),
		Kind:        kind,
		ScaleX:      1,
		ScaleY:      1,
		Selectable:  true,
		HasControls: true,
	}
}

// NewCircle creates a circle with the given radius.
func NewCircle(radius float64) *Object {
	o := newObject(KindCircle)
	o.Radius = radius
	o.Width, o.Height = 2*radius, 2*radius
	return o
}

// NewRect creates a rectangle.
func NewRect(width, height float64) *Object {
	o := newObject(KindRect)
	o.Width, o.Height = width, height
	return o
}

// NewTriangle creates an isosceles triangle with its apex at the top center.
func NewTriangle(width, height float64) *Object {
	o := newObject(KindTriangle)
	o.Width, o.Height = width, height
	return o
}

// NewText creates an editable text object. Its size is measured when it is
// added to a scene.
func NewText(text, family string, size float64) *Object {
	o := newObject(KindText)
	o.Text = text
	o.FontFamily = family
	o.FontSize = size
	return o
}

// NewImage creates an image object at the image's natural size.
func NewImage(img *gg.ImageBuf, source string) *Object {
	o := newObject(KindImage)
	o.Image = img
	o.Source = source
	if img != nil {
		o.Width, o.Height = float64(img.Width()), float64(img.Height())
	}
	return o
}

// NewPath creates a stroked polyline from absolute points. The object's
// origin is moved to the points' bounding box and the points are stored
// relative to it.
func NewPath(points []gg.Point, stroke Color, width float64) *Object {
	o := newObject(KindPath)
	o.Stroke = stroke
	o.StrokeWidth = width
	if len(points) == 0 {
		return o
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}

	o.Points = make([]gg.Point, len(points))
	for i, p := range points {
		o.Points[i] = gg.Pt(p.X-minX, p.Y-minY)
	}
	o.Width, o.Height = maxX-minX, maxY-minY
	o.Left, o.Top = minX-width/2, minY-width/2
	return o
}

// strokeWidth is the stroke width the bounding box reserves around the
// geometry. It is zero when the object has no stroke.
func (o *Object) strokeWidth() float64 {
	if o.Stroke.IsNone() {
		return 0
	}
	return o.StrokeWidth
}

// ScaledSize returns the bounding box size with stroke and scale applied.
func (o *Object) ScaledSize() (w, h float64) {
	sw := o.strokeWidth()
	return (o.Width + sw) * o.ScaleX, (o.Height + sw) * o.ScaleY
}

// Bounds returns the object's bounding box in scene coordinates.
func (o *Object) Bounds() Rect {
	w, h := o.ScaledSize()
	return Rect{X: o.Left, Y: o.Top, W: w, H: h}
}

// Center returns the center of the bounding box.
func (o *Object) Center() gg.Point {
	return o.Bounds().Center()
}

// SetCenter moves the object so its bounding box is centered on p.
func (o *Object) SetCenter(p gg.Point) {
	w, h := o.ScaledSize()
	o.Left = p.X - w/2
	o.Top = p.Y - h/2
}

// ScaleToWidth scales the object uniformly so its bounding box is width wide.
func (o *Object) ScaleToWidth(width float64) {
	base := o.Width + o.strokeWidth()
	if base <= 0 {
		return
	}
	s := width / base
	o.ScaleX, o.ScaleY = s, s
}

// Clone returns a copy of o that shares only the image buffer.
func (o *Object) Clone() *Object {
	c := *o
	c.Points = slices.Clone(o.Points)
	if o.Shadow != nil {
		s := *o.Shadow
		c.Shadow = &s
	}
	return &c
}
