// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggedit provides a headless scene editor built on gg.
//
// # Overview
//
// A Host owns one drawing surface and one workspace: a white 900x1200 page
// that is kept centered on the surface, clips everything drawn on it and
// anchors newly added objects. An Editor bound to the host adds circles,
// rectangles, triangles, text and remote images, records freehand strokes,
// recolors and deletes the selection, and reports selection changes.
//
// # Quick Start
//
//	host, err := ggedit.NewHost(1280, 800)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer host.Close()
//
//	ed := host.Editor()
//	ed.OnSelect(func(selected bool) { fmt.Println("selected:", selected) })
//	if _, err := ed.AddCircle(); err != nil {
//		log.Fatal(err)
//	}
//	_ = ed.SetColor("#3b82f6")
//	_ = host.SavePNG("out.png")
//
// # Errors
//
// Operations report missing state explicitly. Every Editor method returns
// ErrNoSurface once the host is closed, or when called on a nil Editor.
// Color and delete operations return ErrNoSelection when nothing is active.
// A failed image load returns an error wrapping ErrImageLoad.
//
// # Concurrency
//
// Host and Editor are safe for concurrent use. Operations are serialized;
// selection callbacks run after the operation completes, outside the host
// lock, so they may call back into the Editor.
//
// # Logging
//
// ggedit produces no log output by default. Call SetLogger to enable it.
package ggedit
