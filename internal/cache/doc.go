// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache provides a sharded LRU cache keyed by image source.
//
// Sources are spread over a fixed number of shards by FNV-1a hash so that
// concurrent loads of different images rarely contend on the same lock.
// Each shard evicts its least recently used entry once it reaches capacity.
//
//	c := cache.New[*gg.ImageBuf](4)
//	c.Set("https://example.com/a.png", img)
//	img, ok := c.Get("https://example.com/a.png")
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
