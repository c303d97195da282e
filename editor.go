// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggedit

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggedit/scene"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Creation defaults.
const (
	CircleRadius = 225
	CircleOffset = 100
	ShapeSize    = 200
	ImageWidth   = 300

	DefaultText       = "Edit this text"
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 30

	DefaultColor = "#000000"

	circleColor = "rgba(0,0,0,1)"
)

// Editor is the editing facade of a Host. Every method returns ErrNoSurface
// when called on a nil Editor or after the host is closed.
type Editor struct {
	h *Host
}

func (e *Editor) host() (*Host, error) {
	if e == nil || e.h == nil {
		return nil, ErrNoSurface
	}
	return e.h, nil
}

// AddCircle adds a black circle, centers it on the workspace and selects it.
func (e *Editor) AddCircle() (uuid.UUID, error) {
	c := scene.NewCircle(CircleRadius)
	c.Left, c.Top = CircleOffset, CircleOffset
	c.Fill, c.Stroke = circleColor, circleColor
	c.StrokeWidth = 2
	return e.add(c)
}

// AddRect adds a black square.
func (e *Editor) AddRect() (uuid.UUID, error) {
	r := scene.NewRect(ShapeSize, ShapeSize)
	r.Fill = DefaultColor
	return e.add(r)
}

// AddTriangle adds a black triangle.
func (e *Editor) AddTriangle() (uuid.UUID, error) {
	t := scene.NewTriangle(ShapeSize, ShapeSize)
	t.Fill = DefaultColor
	return e.add(t)
}

// AddText adds editable text filled with color, black if color is empty.
func (e *Editor) AddText(color string) (uuid.UUID, error) {
	c, err := colorOrDefault(color)
	if err != nil {
		return uuid.Nil, err
	}
	t := scene.NewText(DefaultText, DefaultFontFamily, DefaultFontSize)
	t.Fill = c
	return e.add(t)
}

// AddImage fetches the host's placeholder image, scales it to a width of
// 300 and adds it. The object is added only once the image is decoded and
// only if the host is still open: closing the host cancels the load and
// AddImage returns ErrNoSurface. Load failures wrap ErrImageLoad.
func (e *Editor) AddImage(ctx context.Context) (uuid.UUID, error) {
	h, err := e.host()
	if err != nil {
		return uuid.Nil, err
	}
	ctx, cancel := h.bind(ctx)
	defer cancel()

	src := h.opts.imageURL
	img, err := h.loader.Load(ctx, src)
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrNoSurface) {
			return uuid.Nil, ErrNoSurface
		}
		Logger().Warn("ggedit: image load failed", "src", src, "err", err)
		return uuid.Nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}

	o := scene.NewImage(img, src)
	o.ScaleToWidth(ImageWidth)
	return e.add(o)
}

// add inserts o, centers it on the workspace and makes it active.
func (e *Editor) add(o *scene.Object) (uuid.UUID, error) {
	h, err := e.host()
	if err != nil {
		return uuid.Nil, err
	}
	err = h.update(func(s *scene.Scene) error {
		if err := s.Add(o); err != nil {
			return err
		}
		s.CenterObjectAt(o, h.ws.Center())
		return s.SetActive(o)
	})
	if err != nil {
		return uuid.Nil, err
	}
	Logger().Debug("ggedit: object added", "kind", o.Kind, "id", o.ID)
	return o.ID, nil
}

// EnableDrawing turns on freehand drawing with a 5px brush in color,
// black if color is empty.
func (e *Editor) EnableDrawing(color string) error {
	h, err := e.host()
	if err != nil {
		return err
	}
	c, err := colorOrDefault(color)
	if err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		s.SetDrawingMode(true)
		b := s.Brush()
		b.Width = scene.DefaultBrushWidth
		b.Color = c
		return nil
	})
}

// DisableDrawing turns freehand drawing off.
func (e *Editor) DisableDrawing() error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		s.SetDrawingMode(false)
		return nil
	})
}

// SetColor recolors the active object: text and filled shapes get a new
// fill, other objects a new stroke. In drawing mode the brush color changes
// too, so later strokes use it. Without a selection or drawing mode it
// returns ErrNoSelection.
func (e *Editor) SetColor(color string) error {
	h, err := e.host()
	if err != nil {
		return err
	}
	c := scene.Color(color)
	if err := c.Validate(); err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		a := s.Active()
		if a == nil && !s.DrawingMode() {
			return ErrNoSelection
		}
		if s.DrawingMode() {
			s.Brush().Color = c
		}
		if a == nil {
			return nil
		}
		Logger().Debug("ggedit: object recolored", "kind", a.Kind, "id", a.ID, "color", c)
		return s.Modify(a, func(o *scene.Object) {
			if o.Kind.FillColored() {
				o.Fill = c
			} else {
				o.Stroke = c
			}
		})
	})
}

// DeleteSelected removes the active object and clears the selection.
func (e *Editor) DeleteSelected() error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		a := s.Active()
		if a == nil {
			return ErrNoSelection
		}
		Logger().Debug("ggedit: object removed", "kind", a.Kind, "id", a.ID)
		return s.Remove(a)
	})
}

// OnSelect registers fn to be called with true when an object becomes
// active and false when the selection is cleared. Any number of callbacks
// may be registered; the returned function unregisters fn.
func (e *Editor) OnSelect(fn func(selected bool)) (unsubscribe func()) {
	h, err := e.host()
	if err != nil || fn == nil {
		return func() {}
	}
	return h.events.On(scene.EventAny, func(ev scene.Event) {
		switch ev.Type {
		case scene.EventSelectionCreated, scene.EventSelectionUpdated:
			fn(true)
		case scene.EventSelectionCleared:
			fn(false)
		}
	})
}

// Select makes the object with the given id active.
func (e *Editor) Select(id uuid.UUID) error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		o := s.Find(id)
		if o == nil || !o.Selectable {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return s.SetActive(o)
	})
}

// ClearSelection deselects the active object, if any.
func (e *Editor) ClearSelection() error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		s.DiscardActive()
		return nil
	})
}

// Selected returns a copy of the active object.
func (e *Editor) Selected() (scene.Object, bool) {
	h, err := e.host()
	if err != nil {
		return scene.Object{}, false
	}
	var out scene.Object
	var ok bool
	_ = h.view(func(s *scene.Scene) error {
		if a := s.Active(); a != nil {
			out, ok = *a.Clone(), true
		}
		return nil
	})
	return out, ok
}

// Objects returns copies of the user objects in stacking order. The
// workspace is not included.
func (e *Editor) Objects() []scene.Object {
	h, err := e.host()
	if err != nil {
		return nil
	}
	var out []scene.Object
	_ = h.view(func(s *scene.Scene) error {
		for _, o := range s.Objects() {
			if o != h.ws {
				out = append(out, *o.Clone())
			}
		}
		return nil
	})
	return out
}

// EditText replaces the text of the active text object.
func (e *Editor) EditText(text string) error {
	h, err := e.host()
	if err != nil {
		return err
	}
	text = norm.NFC.String(text)
	return h.update(func(s *scene.Scene) error {
		a := s.Active()
		if a == nil {
			return ErrNoSelection
		}
		if a.Kind != scene.KindText {
			return ErrNotText
		}
		return s.Modify(a, func(o *scene.Object) { o.Text = text })
	})
}

// BringToFront moves the active object to the top of the stack.
func (e *Editor) BringToFront() error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.update(func(s *scene.Scene) error {
		a := s.Active()
		if a == nil {
			return ErrNoSelection
		}
		return s.BringToFront(a)
	})
}

// PointerDown starts a freehand stroke at surface point (x, y). Outside
// drawing mode pointer input is ignored.
func (e *Editor) PointerDown(x, y float64) error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.view(func(s *scene.Scene) error {
		s.PointerDown(gg.Pt(x, y))
		return nil
	})
}

// PointerMove extends the current stroke.
func (e *Editor) PointerMove(x, y float64) error {
	h, err := e.host()
	if err != nil {
		return err
	}
	return h.view(func(s *scene.Scene) error {
		s.PointerMove(gg.Pt(x, y))
		return nil
	})
}

// PointerUp commits the current stroke as a path object and returns its id.
// It returns uuid.Nil when no stroke was committed.
func (e *Editor) PointerUp() (uuid.UUID, error) {
	h, err := e.host()
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.Nil
	err = h.update(func(s *scene.Scene) error {
		p, err := s.PointerUp()
		if p != nil {
			id = p.ID
		}
		return err
	})
	return id, err
}

// Stroke draws a complete freehand stroke through the given surface points.
func (e *Editor) Stroke(points ...gg.Point) (uuid.UUID, error) {
	if len(points) == 0 {
		return uuid.Nil, nil
	}
	if err := e.PointerDown(points[0].X, points[0].Y); err != nil {
		return uuid.Nil, err
	}
	for _, p := range points[1:] {
		if err := e.PointerMove(p.X, p.Y); err != nil {
			return uuid.Nil, err
		}
	}
	return e.PointerUp()
}

func colorOrDefault(color string) (scene.Color, error) {
	c := scene.Color(color)
	if c.IsNone() {
		c = DefaultColor
	}
	if err := c.Validate(); err != nil {
		return scene.None, err
	}
	return c, nil
}
