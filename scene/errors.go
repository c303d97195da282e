// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import "errors"

// Common errors returned by Scene operations.
var (
	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("scene: invalid color")

	// ErrDuplicateWorkspace is returned when a second workspace is added.
	ErrDuplicateWorkspace = errors.New("scene: workspace already exists")

	// ErrNotInScene is returned when an object is not part of the scene.
	ErrNotInScene = errors.New("scene: object not in scene")

	// ErrNotSelectable is returned when activating a non-selectable object.
	ErrNotSelectable = errors.New("scene: object is not selectable")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("scene: invalid dimensions")

	// ErrClosed is returned when operations are attempted on a disposed scene.
	ErrClosed = errors.New("scene: scene is disposed")
)
