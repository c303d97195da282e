// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gogpu/gg"
	"github.com/mazznoer/csscolorparser"
)

// Color is a CSS color string as accepted by the editor.
//
// Supported forms:
//   - "#rgb", "#rgba", "#rrggbb", "#rrggbbaa"
//   - "rgb(r, g, b)" and "rgba(r, g, b, a)", channels 0-255 or percentages,
//     alpha in [0, 1]
//   - "hsl(h, s, l)" and "hsla(h, s, l, a)"
//   - CSS named colors ("white", "rebeccapurple", ...) and "transparent"
//
// The zero value (None) means "not painted".
type Color string

// None is the empty color. Objects with a None fill or stroke skip that pass.
const None Color = ""

// arity is the argument count required by each functional notation.
var arity = map[string]int{
	"rgb":  3,
	"rgba": 4,
	"hsl":  3,
	"hsla": 4,
}

// ParseColor parses a CSS color string into a gg color.
// None parses to transparent black without error.
func ParseColor(s string) (gg.RGBA, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" || str == "none" {
		return gg.Transparent, nil
	}
	if err := checkArity(str); err != nil {
		return gg.RGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	c, err := csscolorparser.Parse(str)
	if err != nil {
		return gg.RGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// checkArity rejects functional notations whose argument count does not
// match the function name, such as rgb with an alpha or rgba without one.
func checkArity(str string) error {
	open := strings.IndexByte(str, '(')
	if open < 0 {
		return nil
	}
	name := strings.TrimSpace(str[:open])
	want, ok := arity[name]
	if !ok {
		return nil
	}
	args := strings.FieldsFunc(strings.TrimSuffix(str[open+1:], ")"), func(r rune) bool {
		return r == ',' || r == '/' || unicode.IsSpace(r)
	})
	if len(args) != want {
		return fmt.Errorf("%s() takes %d arguments, got %d", name, want, len(args))
	}
	return nil
}

// RGBA returns the parsed color and whether it should be painted.
// Invalid and None colors report false.
func (c Color) RGBA() (gg.RGBA, bool) {
	if c.IsNone() {
		return gg.Transparent, false
	}
	rgba, err := ParseColor(string(c))
	if err != nil {
		return gg.Transparent, false
	}
	return rgba, rgba.A > 0
}

// IsNone reports whether c is the empty color.
func (c Color) IsNone() bool {
	s := strings.TrimSpace(string(c))
	return s == "" || strings.EqualFold(s, "none")
}

// Validate returns ErrInvalidColor if c cannot be parsed.
func (c Color) Validate() error {
	_, err := ParseColor(string(c))
	return err
}
