// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// LineHeight is the line height multiplier applied to a text object's font
// size when measuring its bounding box.
const LineHeight = 1.16

// Fonts maps font family names to loaded font sources.
//
// Families that were never registered fall back to Go Regular, so a text
// object asking for "Arial" still renders. Fonts is safe for concurrent use.
type Fonts struct {
	mu       sync.RWMutex
	sources  map[string]*text.FontSource
	fallback *text.FontSource
}

// NewFonts creates a registry preloaded with the Go font family:
// "Go", "Go Bold", "Go Italic", "Go Mono" and the generic "monospace".
func NewFonts() (*Fonts, error) {
	f := &Fonts{sources: make(map[string]*text.FontSource)}
	builtin := []struct {
		names []string
		data  []byte
	}{
		{[]string{"Go", "sans-serif"}, goregular.TTF},
		{[]string{"Go Bold"}, gobold.TTF},
		{[]string{"Go Italic"}, goitalic.TTF},
		{[]string{"Go Mono", "monospace"}, gomono.TTF},
	}
	for _, b := range builtin {
		src, err := text.NewFontSource(b.data)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("scene: loading %s: %w", b.names[0], err)
		}
		for _, n := range b.names {
			f.sources[key(n)] = src
		}
	}
	f.fallback = f.sources[key("Go")]
	return f, nil
}

func key(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

// Register parses TTF/OTF data and makes it available under family,
// replacing any previous registration.
func (f *Fonts) Register(family string, data []byte) error {
	if key(family) == "" {
		return errors.New("scene: empty font family")
	}
	src, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("scene: register %q: %w", family, err)
	}
	f.mu.Lock()
	f.sources[key(family)] = src
	f.mu.Unlock()
	return nil
}

// Source returns the font source for family, or the fallback.
func (f *Fonts) Source(family string) *text.FontSource {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if src, ok := f.sources[key(family)]; ok {
		return src
	}
	return f.fallback
}

// Face returns a face for family at size points, or nil after Close.
func (f *Fonts) Face(family string, size float64) text.Face {
	src := f.Source(family)
	if src == nil {
		return nil
	}
	return src.Face(size)
}

// Measure returns the advance width of s and the line box height used for
// text objects (size times LineHeight).
func (f *Fonts) Measure(family string, size float64, s string) (w, h float64) {
	w, _ = text.Measure(s, f.Face(family, size))
	return w, size * LineHeight
}

// Close releases all font sources.
func (f *Fonts) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[*text.FontSource]bool)
	var errs []error
	for _, src := range f.sources {
		if seen[src] {
			continue
		}
		seen[src] = true
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.sources = make(map[string]*text.FontSource)
	f.fallback = nil
	return errors.Join(errs...)
}
