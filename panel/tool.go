// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package panel

import (
	"fmt"
	"strings"
)

// Tool is the action selected in the control panel.
type Tool int

// Tools, in panel order.
const (
	ToolNone Tool = iota
	ToolCircle
	ToolImage
	ToolText
	ToolDraw
)

var toolNames = [...]string{
	ToolNone:   "none",
	ToolCircle: "circle",
	ToolImage:  "image",
	ToolText:   "text",
	ToolDraw:   "draw",
}

// String returns the tool name.
func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool returns the tool with the given name. "nothing" is accepted as
// an alias of "none".
func ParseTool(name string) (Tool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "nothing" {
		return ToolNone, nil
	}
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolNone, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}
