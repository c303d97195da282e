// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggedit

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggedit/imageload"
	"github.com/gogpu/ggedit/scene"
)

// Host owns one drawing surface and the scene drawn on it.
//
// On creation it adds the workspace: a white, non-selectable page that is
// centered on the surface, clips all content and anchors new objects.
// Resizing the surface keeps the workspace centered.
//
// Host is safe for concurrent use.
type Host struct {
	mu sync.Mutex

	dc     *gg.Context
	scene  *scene.Scene
	ws     *scene.Object
	loader *imageload.Loader
	opts   hostOptions

	// ctx lives until Close; image loads are bound to it.
	ctx    context.Context
	cancel context.CancelFunc

	// events re-publishes scene events after the host lock is released.
	events  *scene.Emitter
	pending []scene.Event

	timer              *time.Timer
	pendingW, pendingH int
	resizes            int

	editor *Editor
	closed bool
}

// NewHost creates a host with a surface of the given size.
func NewHost(width, height int, opts ...HostOption) (*Host, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	o := defaultHostOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.provider != nil {
		// Non-fatal: without an accelerator gg renders on the CPU.
		if err := gg.SetAcceleratorDeviceProvider(o.provider); err != nil {
			Logger().Debug("ggedit: device provider not shared", "err", err)
		}
	}

	sc, err := scene.New(width, height, scene.WithStyle(o.style))
	if err != nil {
		return nil, fmt.Errorf("ggedit: create scene: %w", err)
	}

	loader := o.loader
	if loader == nil {
		lopts := []imageload.Option{imageload.WithLogger(Logger())}
		if o.httpClient != nil {
			lopts = append(lopts, imageload.WithHTTPClient(o.httpClient))
		}
		loader = imageload.New(lopts...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Host{
		dc:     gg.NewContext(width, height),
		scene:  sc,
		loader: loader,
		opts:   o,
		ctx:    ctx,
		cancel: cancel,
		events: scene.NewEmitter(),
	}
	h.editor = &Editor{h: h}
	sc.Events().On(scene.EventAny, func(ev scene.Event) {
		h.pending = append(h.pending, ev)
	})

	if err := h.mount(); err != nil {
		_ = h.Close()
		return nil, err
	}
	Logger().Info("ggedit: host mounted", "width", width, "height", height)
	return h, nil
}

func (h *Host) mount() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ws := scene.NewRect(h.opts.workspaceW, h.opts.workspaceH)
	ws.Name = scene.WorkspaceName
	ws.Fill = "white"
	ws.Selectable = false
	ws.HasControls = false
	ws.Shadow = &scene.Shadow{Color: "rgba(0,0,0,0.8)", Blur: 5}
	if err := h.scene.Add(ws); err != nil {
		return fmt.Errorf("ggedit: add workspace: %w", err)
	}
	h.scene.CenterObject(ws)
	if err := h.scene.SetClipPath(ws); err != nil {
		return fmt.Errorf("ggedit: clip to workspace: %w", err)
	}
	h.ws = ws
	h.fit()
	h.pending = nil
	return h.render()
}

// Editor returns the editor bound to this host.
func (h *Host) Editor() *Editor {
	return h.editor
}

// Size returns the surface size.
func (h *Host) Size() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene.Width(), h.scene.Height()
}

// Scene returns the host's scene. The scene is not safe for concurrent use;
// callers that hold it must not use it concurrently with Editor operations.
func (h *Host) Scene() *scene.Scene {
	return h.scene
}

// Done is closed when the host is closed.
func (h *Host) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Resize resizes the surface and re-centers the workspace on it.
func (h *Host) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return h.update(func(s *scene.Scene) error {
		if err := h.dc.Resize(width, height); err != nil {
			return fmt.Errorf("ggedit: resize surface: %w", err)
		}
		if err := s.SetDimensions(width, height); err != nil {
			return err
		}
		h.fit()
		h.resizes++
		Logger().Info("ggedit: resized", "width", width, "height", height)
		return nil
	})
}

// ResizeDebounced schedules a resize. Calls within the debounce window
// replace each other; only the last size is applied once the window passes
// without further calls.
func (h *Host) ResizeDebounced(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrNoSurface
	}
	if h.opts.debounce <= 0 {
		h.mu.Unlock()
		return h.Resize(width, height)
	}
	h.pendingW, h.pendingH = width, height
	if h.timer == nil {
		h.timer = time.AfterFunc(h.opts.debounce, h.flushResize)
	} else {
		h.timer.Reset(h.opts.debounce)
	}
	h.mu.Unlock()
	return nil
}

func (h *Host) flushResize() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	w, ht := h.pendingW, h.pendingH
	h.mu.Unlock()
	if err := h.Resize(w, ht); err != nil && !errors.Is(err, ErrNoSurface) {
		Logger().Warn("ggedit: debounced resize failed", "err", err)
	}
}

// fit sets the viewport so the workspace center lands on the surface
// center, zooming the workspace to fit when auto-zoom is on.
func (h *Host) fit() {
	w, ht := float64(h.scene.Width()), float64(h.scene.Height())
	b := h.ws.Bounds()
	zoom := 1.0
	if h.opts.autoZoom {
		zoom = fitRatio * math.Min(w/b.W, ht/b.H)
	}
	c := b.Center()
	h.scene.SetViewport(gg.Translate(w/2, ht/2).
		Multiply(gg.Scale(zoom, zoom)).
		Multiply(gg.Translate(-c.X, -c.Y)))
}

// Render redraws the scene. Editor operations render on their own; Render
// is for callers that change the scene directly.
func (h *Host) Render() error {
	return h.update(func(*scene.Scene) error { return nil })
}

// Snapshot returns a copy of the surface pixels.
func (h *Host) Snapshot() (*image.NRGBA, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrNoSurface
	}
	_ = h.dc.FlushGPU()
	return imaging.Clone(h.dc.Image()), nil
}

// EncodePNG writes the surface as PNG to w.
func (h *Host) EncodePNG(w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrNoSurface
	}
	_ = h.dc.FlushGPU()
	return h.dc.EncodePNG(w)
}

// SavePNG writes the surface to a PNG file.
func (h *Host) SavePNG(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrNoSurface
	}
	return h.dc.SavePNG(path)
}

// Close unmounts the host: in-flight image loads are canceled, a pending
// debounced resize is dropped and the surface and scene are released.
// Close is idempotent.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.cancel()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.pending = nil
	errs := []error{h.scene.Dispose(), h.dc.Close()}
	h.mu.Unlock()

	h.events.Reset()
	Logger().Info("ggedit: host closed")
	return errors.Join(errs...)
}

// update runs fn on the scene under the host lock, re-renders, and then
// publishes the scene events fn caused with the lock released.
func (h *Host) update(fn func(*scene.Scene) error) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrNoSurface
	}
	err := fn(h.scene)
	if rerr := h.render(); rerr != nil {
		Logger().Warn("ggedit: render failed", "err", rerr)
		if err == nil {
			err = rerr
		}
	}
	evs := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, ev := range evs {
		h.events.Emit(ev)
	}
	return err
}

// view runs fn on the scene under the host lock without rendering.
func (h *Host) view(fn func(*scene.Scene) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrNoSurface
	}
	return fn(h.scene)
}

func (h *Host) render() error {
	return h.scene.Render(h.dc)
}

// bind derives a context from parent that is also canceled, with cause
// ErrNoSurface, when the host closes.
func (h *Host) bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(h.ctx, func() { cancel(ErrNoSurface) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}
