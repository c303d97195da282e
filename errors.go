// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggedit

import "errors"

// Errors returned by Host and Editor operations.
var (
	// ErrNoSurface is returned when the host is closed or the editor is nil.
	ErrNoSurface = errors.New("ggedit: no surface")

	// ErrNoSelection is returned when an operation needs an active object
	// and none is selected.
	ErrNoSelection = errors.New("ggedit: no active selection")

	// ErrNotFound is returned when an object id is unknown or not selectable.
	ErrNotFound = errors.New("ggedit: object not found")

	// ErrImageLoad is returned when an image cannot be fetched or decoded.
	ErrImageLoad = errors.New("ggedit: image load failed")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("ggedit: invalid dimensions")

	// ErrNotText is returned by EditText when the active object is not text.
	ErrNotText = errors.New("ggedit: active object is not text")
)
