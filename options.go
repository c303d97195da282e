// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggedit

import (
	"net/http"
	"time"

	"github.com/gogpu/ggedit/imageload"
	"github.com/gogpu/ggedit/scene"
	"github.com/gogpu/gpucontext"
)

// Workspace defaults.
const (
	// WorkspaceWidth and WorkspaceHeight are the default page size.
	WorkspaceWidth  = 900
	WorkspaceHeight = 1200

	// DefaultResizeDebounce is the window used by ResizeDebounced.
	DefaultResizeDebounce = 50 * time.Millisecond

	// DefaultImageURL is the placeholder fetched by AddImage.
	DefaultImageURL = "https://res.cloudinary.com/dkysrpdi6/image/upload/v1710317497/ijkte1lttxyzroiop3dq.jpg"

	// fitRatio is the share of the surface the workspace fills when
	// auto-zoom is on.
	fitRatio = 0.85
)

// HostOption configures a Host during creation.
//
// Example:
//
//	host, err := ggedit.NewHost(1280, 800,
//		ggedit.WithAutoZoom(false),
//		ggedit.WithImageURL("https://example.com/placeholder.png"))
type HostOption func(*hostOptions)

type hostOptions struct {
	style      scene.Style
	autoZoom   bool
	debounce   time.Duration
	imageURL   string
	loader     *imageload.Loader
	httpClient *http.Client
	provider   gpucontext.DeviceProvider
	workspaceW float64
	workspaceH float64
}

func defaultHostOptions() hostOptions {
	return hostOptions{
		style:      scene.DefaultStyle(),
		autoZoom:   true,
		debounce:   DefaultResizeDebounce,
		imageURL:   DefaultImageURL,
		workspaceW: WorkspaceWidth,
		workspaceH: WorkspaceHeight,
	}
}

// WithStyle sets the selection decoration style used by the host's scene.
// It replaces any process-wide default: every host carries its own style.
func WithStyle(style scene.Style) HostOption {
	return func(o *hostOptions) {
		o.style = style
	}
}

// WithAutoZoom controls whether the workspace is zoomed to fit the surface
// on mount and resize. Enabled by default. When disabled the workspace is
// drawn at scale 1 and only re-centered.
func WithAutoZoom(enabled bool) HostOption {
	return func(o *hostOptions) {
		o.autoZoom = enabled
	}
}

// WithResizeDebounce sets the window within which ResizeDebounced coalesces
// resizes. Zero or negative applies every resize immediately.
func WithResizeDebounce(d time.Duration) HostOption {
	return func(o *hostOptions) {
		o.debounce = d
	}
}

// WithImageURL sets the placeholder image fetched by AddImage.
func WithImageURL(url string) HostOption {
	return func(o *hostOptions) {
		if url != "" {
			o.imageURL = url
		}
	}
}

// WithLoader sets the image loader. By default the host creates one that
// logs through Logger().
func WithLoader(l *imageload.Loader) HostOption {
	return func(o *hostOptions) {
		o.loader = l
	}
}

// WithHTTPClient sets the HTTP client of the default image loader. It is
// ignored when WithLoader is given.
func WithHTTPClient(c *http.Client) HostOption {
	return func(o *hostOptions) {
		o.httpClient = c
	}
}

// WithDeviceProvider shares a host application's GPU device with gg's
// accelerator on mount. It has no effect when no accelerator is registered.
func WithDeviceProvider(p gpucontext.DeviceProvider) HostOption {
	return func(o *hostOptions) {
		o.provider = p
	}
}

// WithWorkspaceSize overrides the workspace page size. Non-positive values
// are ignored.
func WithWorkspaceSize(width, height float64) HostOption {
	return func(o *hostOptions) {
		if width > 0 && height > 0 {
			o.workspaceW, o.workspaceH = width, height
		}
	}
}
