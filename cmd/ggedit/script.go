// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/panel"
)

// runner executes editor scripts. One command per line; blank lines and
// lines starting with '#' are skipped.
//
//	tool none|circle|image|text|draw   press a tool button
//	color <css color>                  pick a color
//	delete                             press the delete button
//	stroke x,y x,y ...                 draw a freehand stroke (draw tool)
//	resize <w> <h>                     resize the surface
//	select-none                        clear the selection
//	front                              bring the selection to the front
//	text <string>                      replace the selected text
//	save <file>                        write the surface as PNG
type runner struct {
	host  *ggedit.Host
	ed    *ggedit.Editor
	panel *panel.Panel
}

func newRunner(h *ggedit.Host) *runner {
	ed := h.Editor()
	return &runner{host: h, ed: ed, panel: panel.New(ed)}
}

func (r *runner) close() {
	r.panel.Close()
}

func (r *runner) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.exec(ctx, line); err != nil {
			return fmt.Errorf("line %d: %s: %w", n, line, err)
		}
	}
	return sc.Err()
}

func (r *runner) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "tool":
		t, err := panel.ParseTool(arg)
		if err != nil {
			return err
		}
		return r.panel.SelectTool(ctx, t)
	case "color":
		return r.panel.ChangeColor(arg)
	case "delete":
		return r.panel.Delete()
	case "stroke":
		pts, err := parsePoints(arg)
		if err != nil {
			return err
		}
		_, err = r.ed.Stroke(pts...)
		return err
	case "resize":
		var w, h int
		if _, err := fmt.Sscanf(arg, "%d %d", &w, &h); err != nil {
			return fmt.Errorf("resize: want <w> <h>: %w", err)
		}
		return r.host.Resize(w, h)
	case "select-none":
		return r.ed.ClearSelection()
	case "front":
		return r.ed.BringToFront()
	case "text":
		return r.ed.EditText(arg)
	case "save":
		if arg == "" {
			return fmt.Errorf("save: missing file name")
		}
		return r.host.SavePNG(arg)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// parsePoints parses "x,y x,y ..." in surface coordinates.
func parsePoints(s string) ([]gg.Point, error) {
	fields := strings.Fields(s)
	pts := make([]gg.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		pts = append(pts, gg.Pt(x, y))
	}
	return pts, nil
}
