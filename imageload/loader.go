// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package imageload fetches and decodes images for the editor.
//
// A Loader resolves an http(s) URL, a file:// URL or a plain file path,
// decodes PNG, JPEG, GIF, WebP, BMP or TIFF data, downsamples images larger
// than a configured maximum and keeps recently used results in an LRU cache.
//
// Example:
//
//	l := imageload.New(imageload.WithTimeout(10 * time.Second))
//	img, err := l.Load(ctx, "https://example.com/photo.jpg")
package imageload

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggedit/internal/cache"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Default configuration constants.
const (
	// DefaultTimeout bounds a single Load, including the HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxDimension is the largest width or height kept after decoding.
	DefaultMaxDimension = 4096

	// DefaultMaxBytes limits how much encoded data is read.
	DefaultMaxBytes = 32 << 20

	// DefaultCacheCapacity is the per-shard LRU capacity.
	DefaultCacheCapacity = 4
)

// Errors returned by Load and Decode.
var (
	// ErrStatus is returned for non-2xx HTTP responses.
	ErrStatus = errors.New("imageload: unexpected HTTP status")

	// ErrDecode is returned when the data is not a supported image.
	ErrDecode = errors.New("imageload: cannot decode image")

	// ErrEmptyImage is returned for images with zero width or height.
	ErrEmptyImage = errors.New("imageload: empty image")

	// ErrUnsupportedScheme is returned for URLs other than http, https and file.
	ErrUnsupportedScheme = errors.New("imageload: unsupported URL scheme")
)

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout bounds each Load. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithMaxDimension sets the largest width or height kept after decoding.
// Larger images are downsampled with a Lanczos filter, preserving aspect
// ratio. Zero or negative keeps images at full size.
func WithMaxDimension(n int) Option {
	return func(l *Loader) {
		l.maxDim = n
	}
}

// WithMaxBytes limits how much encoded data is read per image.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithCacheCapacity sets the per-shard LRU capacity. Zero or negative
// disables caching.
func WithCacheCapacity(n int) Option {
	return func(l *Loader) {
		l.cacheCap = n
	}
}

// WithLogger sets the logger. By default the loader logs nothing.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader fetches and decodes images. It is safe for concurrent use.
//
// Cached *gg.ImageBuf values are shared between callers and must be treated
// as read-only.
type Loader struct {
	client   *http.Client
	timeout  time.Duration
	maxDim   int
	maxBytes int64
	cacheCap int
	cache    *cache.Cache[*gg.ImageBuf]
	log      *slog.Logger
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
		maxDim:   DefaultMaxDimension,
		maxBytes: DefaultMaxBytes,
		cacheCap: DefaultCacheCapacity,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cacheCap > 0 {
		l.cache = cache.New[*gg.ImageBuf](l.cacheCap)
	}
	return l
}

// Load returns the image at src. src may be an http or https URL, a file
// URL, or a file path. Load honors ctx cancellation at every step; an image
// that finishes decoding after ctx is done is discarded.
func (l *Loader) Load(ctx context.Context, src string) (*gg.ImageBuf, error) {
	if l.cache != nil {
		if img, ok := l.cache.Get(src); ok {
			l.log.Debug("imageload: cache hit", "src", src)
			return img, nil
		}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := l.Decode(io.LimitReader(rc, l.maxBytes))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	if l.cache != nil {
		l.cache.Set(src, img)
	}
	l.log.Debug("imageload: loaded",
		"src", src,
		"width", img.Width(),
		"height", img.Height(),
		"elapsed", time.Since(start))
	return img, nil
}

// Decode reads an encoded image from r and converts it to an ImageBuf,
// downsampling it if it exceeds the configured maximum dimension.
func (l *Loader) Decode(r io.Reader) (*gg.ImageBuf, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	if l.maxDim > 0 && (b.Dx() > l.maxDim || b.Dy() > l.maxDim) {
		l.log.Debug("imageload: downsampling",
			"format", format,
			"width", b.Dx(),
			"height", b.Dy(),
			"max", l.maxDim)
		img = imaging.Fit(img, l.maxDim, l.maxDim, imaging.Lanczos)
	}
	return gg.ImageBufFromImage(img), nil
}

// CacheStats reports cache occupancy and hit counters.
type CacheStats = cache.Stats

// CacheStats returns the cache statistics. It returns the zero value when
// caching is disabled.
func (l *Loader) CacheStats() CacheStats {
	if l.cache == nil {
		return CacheStats{}
	}
	return l.cache.Stats()
}

// Purge drops all cached images.
func (l *Loader) Purge() {
	if l.cache != nil {
		l.cache.Clear()
	}
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("imageload: parse %q: %w", src, err)
	}
	switch u.Scheme {
	case "http", "https":
		return l.fetch(ctx, src)
	case "file":
		return openFile(ctx, u.Path)
	case "":
		return openFile(ctx, src)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

func (l *Loader) fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("imageload: request %q: %w", src, err)
	}
	req.Header.Set("Accept", "image/*")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageload: get %q: %w", src, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, src, resp.Status)
	}
	return resp.Body, nil
}

func openFile(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// #nosec G304 -- image path is provided by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageload: %w", err)
	}
	return f, nil
}
