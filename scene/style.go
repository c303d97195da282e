// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

// CornerStyle selects how selection control handles are drawn.
type CornerStyle int

const (
	// CornerRect draws square handles.
	CornerRect CornerStyle = iota
	// CornerCircle draws round handles.
	CornerCircle
)

// String returns the style name.
func (c CornerStyle) String() string {
	if c == CornerCircle {
		return "circle"
	}
	return "rect"
}

// Style configures how the active selection is decorated and what the
// surface looks like outside the workspace. It is passed to New rather than
// applied to shared object defaults, so two scenes can be styled differently.
type Style struct {
	// Background fills the surface before the scene is drawn.
	Background Color

	// BorderColor and BorderScaleFactor control the selection outline.
	BorderColor       Color
	BorderScaleFactor float64

	// Corner* control the resize/rotate handles.
	CornerColor        Color
	CornerStrokeColor  Color
	CornerStyle        CornerStyle
	CornerSize         float64
	TransparentCorners bool

	// RotateOffset is the distance of the rotation handle above the box.
	RotateOffset float64
}

// DefaultStyle returns the editor's selection style: white round handles
// with a blue outline.
func DefaultStyle() Style {
	return Style{
		Background:         "#f1f5f9",
		BorderColor:        "#3b82f6",
		BorderScaleFactor:  1.5,
		CornerColor:        "#FFF",
		CornerStrokeColor:  "#3b82f6",
		CornerStyle:        CornerCircle,
		CornerSize:         13,
		TransparentCorners: false,
		RotateOffset:       40,
	}
}
