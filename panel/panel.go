// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package panel holds the state of the editor's control panel: the selected
// tool, the color picker value and whether the delete button is enabled.
//
// A Panel turns button presses into editor operations the same way for every
// front end, whether that is a window, a test, or the ggedit script runner.
package panel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ggedit"
	"github.com/google/uuid"
)

// DefaultColor is the initial color picker value.
const DefaultColor = "#000000"

// ErrUnknownTool is returned by ParseTool for names that are not tools.
var ErrUnknownTool = errors.New("panel: unknown tool")

// Editor is the subset of *ggedit.Editor the panel drives.
type Editor interface {
	AddCircle() (uuid.UUID, error)
	AddImage(ctx context.Context) (uuid.UUID, error)
	AddText(color string) (uuid.UUID, error)
	EnableDrawing(color string) error
	DisableDrawing() error
	SetColor(color string) error
	DeleteSelected() error
	OnSelect(fn func(selected bool)) (unsubscribe func())
}

// Panel is the control panel state. It is safe for concurrent use.
type Panel struct {
	ed Editor

	mu    sync.Mutex
	tool  Tool
	color string

	selected atomic.Bool
	off      func()
}

// New creates a panel that drives ed and tracks its selection.
func New(ed Editor) *Panel {
	p := &Panel{ed: ed, color: DefaultColor}
	p.off = ed.OnSelect(p.selected.Store)
	return p
}

// Tool returns the selected tool.
func (p *Panel) Tool() Tool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tool
}

// Color returns the color picker value.
func (p *Panel) Color() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.color
}

// CanDelete reports whether the delete button is enabled, that is whether
// an object is selected.
func (p *Panel) CanDelete() bool {
	return p.selected.Load()
}

// SelectTool presses the button of tool t. Selecting ToolDraw turns on
// freehand drawing in the current color; any other tool turns it off.
// Creation tools then add their object: ToolImage blocks until the image
// is loaded or ctx is done.
func (p *Panel) SelectTool(ctx context.Context, t Tool) error {
	p.mu.Lock()
	p.tool = t
	color := p.color
	p.mu.Unlock()

	var err error
	if t == ToolDraw {
		err = p.ed.EnableDrawing(color)
	} else {
		err = p.ed.DisableDrawing()
	}
	if err != nil {
		return err
	}

	switch t {
	case ToolCircle:
		_, err = p.ed.AddCircle()
	case ToolImage:
		_, err = p.ed.AddImage(ctx)
	case ToolText:
		_, err = p.ed.AddText(color)
	}
	return err
}

// ChangeColor sets the color picker value and applies it to the selection
// or the drawing brush. Having neither is not an error for the panel.
func (p *Panel) ChangeColor(color string) error {
	if err := p.ed.SetColor(color); err != nil && !errors.Is(err, ggedit.ErrNoSelection) {
		return err
	}
	p.mu.Lock()
	p.color = color
	p.mu.Unlock()
	return nil
}

// Delete presses the delete button. It returns ggedit.ErrNoSelection when
// the button is disabled.
func (p *Panel) Delete() error {
	if !p.CanDelete() {
		return ggedit.ErrNoSelection
	}
	return p.ed.DeleteSelected()
}

// Close stops tracking the editor's selection.
func (p *Panel) Close() {
	if p.off != nil {
		p.off()
	}
}
