// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"fmt"
	"slices"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// WorkspaceName is the reserved name of the workspace object.
const WorkspaceName = "clip"

// Option configures a Scene during creation.
type Option func(*options)

type options struct {
	style Style
	fonts *Fonts
}

// WithStyle sets the selection decoration style. Defaults to DefaultStyle().
func WithStyle(style Style) Option {
	return func(o *options) {
		o.style = style
	}
}

// WithFonts shares a font registry with the scene. The scene does not close
// a shared registry on Dispose.
func WithFonts(f *Fonts) Option {
	return func(o *options) {
		o.fonts = f
	}
}

// Scene is an ordered collection of objects with at most one active
// (selected) object, a free-drawing brush, a viewport transform and an
// optional clip object.
//
// Scene is NOT safe for concurrent use. Callers serialize access, as
// the editor host does.
type Scene struct {
	width, height int

	objects []*Object
	active  *Object
	clip    *Object

	viewport gg.Matrix

	drawing bool
	brush   *PencilBrush

	style    Style
	fonts    *Fonts
	ownFonts bool

	events   *Emitter
	disposed bool
}

// New creates an empty scene for a surface of the given size.
func New(width, height int, opts ...Option) (*Scene, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	o := options{style: DefaultStyle()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Scene{
		width:    width,
		height:   height,
		viewport: gg.Identity(),
		brush:    NewPencilBrush(),
		style:    o.style,
		fonts:    o.fonts,
		events:   NewEmitter(),
	}
	if s.fonts == nil {
		f, err := NewFonts()
		if err != nil {
			return nil, err
		}
		s.fonts = f
		s.ownFonts = true
	}
	return s, nil
}

// Events returns the scene's event emitter.
func (s *Scene) Events() *Emitter {
	return s.events
}

// Style returns the selection style.
func (s *Scene) Style() Style {
	return s.style
}

// Fonts returns the font registry used to measure and draw text.
func (s *Scene) Fonts() *Fonts {
	return s.fonts
}

// Width returns the surface width.
func (s *Scene) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *Scene) Height() int {
	return s.height
}

// SetDimensions changes the surface size. Objects are not moved.
func (s *Scene) SetDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	s.width, s.height = width, height
	return nil
}

// Add appends objects to the top of the stack. Objects already in the scene
// are skipped. Adding a second object named WorkspaceName fails with
// ErrDuplicateWorkspace; objects before it in objs remain added.
func (s *Scene) Add(objs ...*Object) error {
	if s.disposed {
		return ErrClosed
	}
	for _, o := range objs {
		if o == nil || s.index(o) >= 0 {
			continue
		}
		if o.Name == WorkspaceName && s.Workspace() != nil {
			return ErrDuplicateWorkspace
		}
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		s.measure(o)
		s.objects = append(s.objects, o)
		s.events.Emit(Event{Type: EventObjectAdded, Target: o})
	}
	return nil
}

// Remove deletes o from the scene. If o is active the selection is cleared
// first, emitting selection:cleared.
func (s *Scene) Remove(o *Object) error {
	if s.disposed {
		return ErrClosed
	}
	i := s.index(o)
	if i < 0 {
		return ErrNotInScene
	}
	if s.active == o {
		s.DiscardActive()
	}
	if s.clip == o {
		s.clip = nil
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	s.events.Emit(Event{Type: EventObjectRemoved, Target: o})
	return nil
}

// Objects returns the objects in stacking order, bottom first.
// The slice is a copy; the objects are not.
func (s *Scene) Objects() []*Object {
	return slices.Clone(s.objects)
}

// Len returns the number of objects, workspace included.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Find returns the object with the given ID, or nil.
func (s *Scene) Find(id uuid.UUID) *Object {
	for _, o := range s.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// FindByName returns the first object with the given name, or nil.
func (s *Scene) FindByName(name string) *Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Workspace returns the workspace object, or nil if none was added.
func (s *Scene) Workspace() *Object {
	return s.FindByName(WorkspaceName)
}

// SetClipPath restricts rendering of all objects to o's bounds.
// Pass nil to disable clipping.
func (s *Scene) SetClipPath(o *Object) error {
	if o != nil && s.index(o) < 0 {
		return ErrNotInScene
	}
	s.clip = o
	return nil
}

// ClipPath returns the clip object, or nil.
func (s *Scene) ClipPath() *Object {
	return s.clip
}

// Active returns the selected object, or nil.
func (s *Scene) Active() *Object {
	return s.active
}

// SetActive selects o. Emits selection:created when nothing was selected
// and selection:updated when the selection changes to a different object.
func (s *Scene) SetActive(o *Object) error {
	if s.index(o) < 0 {
		return ErrNotInScene
	}
	if !o.Selectable {
		return ErrNotSelectable
	}
	prev := s.active
	if prev == o {
		return nil
	}
	s.active = o
	if prev == nil {
		s.events.Emit(Event{Type: EventSelectionCreated, Target: o})
	} else {
		s.events.Emit(Event{Type: EventSelectionUpdated, Target: o, Previous: prev})
	}
	return nil
}

// DiscardActive clears the selection and reports whether anything was
// selected. Emits selection:cleared.
func (s *Scene) DiscardActive() bool {
	prev := s.active
	if prev == nil {
		return false
	}
	s.active = nil
	s.events.Emit(Event{Type: EventSelectionCleared, Target: prev})
	return true
}

// Center returns the center of the surface in scene coordinates, ignoring
// the viewport.
func (s *Scene) Center() gg.Point {
	return gg.Pt(float64(s.width)/2, float64(s.height)/2)
}

// CenterObject centers o on the surface center.
func (s *Scene) CenterObject(o *Object) {
	s.CenterObjectAt(o, s.Center())
}

// CenterObjectAt centers o's bounding box on p.
func (s *Scene) CenterObjectAt(o *Object, p gg.Point) {
	o.SetCenter(p)
	if s.index(o) >= 0 {
		s.events.Emit(Event{Type: EventObjectModified, Target: o})
	}
}

// Modify applies fn to o and emits object:modified. Text objects are
// re-measured afterwards.
func (s *Scene) Modify(o *Object, fn func(*Object)) error {
	if s.index(o) < 0 {
		return ErrNotInScene
	}
	fn(o)
	s.measure(o)
	s.events.Emit(Event{Type: EventObjectModified, Target: o})
	return nil
}

// BringToFront moves o to the top of the stack.
func (s *Scene) BringToFront(o *Object) error {
	i := s.index(o)
	if i < 0 {
		return ErrNotInScene
	}
	s.objects = append(slices.Delete(s.objects, i, i+1), o)
	s.events.Emit(Event{Type: EventObjectModified, Target: o})
	return nil
}

// Viewport returns the scene-to-surface transform.
func (s *Scene) Viewport() gg.Matrix {
	return s.viewport
}

// SetViewport sets the scene-to-surface transform.
func (s *Scene) SetViewport(m gg.Matrix) {
	s.viewport = m
}

// ToScene converts a surface point to scene coordinates.
func (s *Scene) ToScene(p gg.Point) gg.Point {
	return s.viewport.Invert().TransformPoint(p)
}

// ToSurface converts a scene point to surface coordinates.
func (s *Scene) ToSurface(p gg.Point) gg.Point {
	return s.viewport.TransformPoint(p)
}

// SetDrawingMode turns free drawing on or off. Turning it off drops any
// unfinished stroke.
func (s *Scene) SetDrawingMode(on bool) {
	s.drawing = on
	if !on {
		s.brush.Cancel()
	}
}

// DrawingMode reports whether free drawing is on.
func (s *Scene) DrawingMode() bool {
	return s.drawing
}

// Brush returns the free-drawing brush.
func (s *Scene) Brush() *PencilBrush {
	return s.brush
}

// PointerDown starts a stroke at the surface point p in drawing mode.
// Outside drawing mode it does nothing.
func (s *Scene) PointerDown(p gg.Point) {
	if !s.drawing {
		return
	}
	s.brush.Begin(s.ToScene(p))
}

// PointerMove extends the current stroke.
func (s *Scene) PointerMove(p gg.Point) {
	if !s.drawing {
		return
	}
	s.brush.Extend(s.ToScene(p))
}

// PointerUp commits the current stroke as a path object and emits
// path:created. It returns nil when no stroke was committed.
func (s *Scene) PointerUp() (*Object, error) {
	if !s.drawing {
		return nil, nil
	}
	path := s.brush.End()
	if path == nil {
		return nil, nil
	}
	if err := s.Add(path); err != nil {
		return nil, err
	}
	s.events.Emit(Event{Type: EventPathCreated, Target: path})
	return path, nil
}

// Dispose releases the scene's objects, handlers and, if the scene created
// them, its fonts. The scene must not be used afterwards.
func (s *Scene) Dispose() error {
	if s.disposed {
		return nil
	}
	s.disposed = true
	s.objects = nil
	s.active = nil
	s.clip = nil
	s.brush.Cancel()
	s.events.Reset()
	if s.ownFonts {
		return s.fonts.Close()
	}
	return nil
}

func (s *Scene) index(o *Object) int {
	if o == nil {
		return -1
	}
	return slices.Index(s.objects, o)
}

// measure sizes text objects from their font.
func (s *Scene) measure(o *Object) {
	if o.Kind != KindText {
		return
	}
	o.Width, o.Height = s.fonts.Measure(o.FontFamily, o.FontSize, o.Text)
}
