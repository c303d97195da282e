// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

// node is an element of the recency list. It carries its key so that the
// evicted entry can be dropped from the shard map.
type node struct {
	key        string
	prev, next *node
}

// recency is a doubly-linked list ordered from most to least recently used.
// It is not safe for concurrent use; the owning shard holds the lock.
type recency struct {
	head, tail *node
	n          int
}

func (l *recency) len() int { return l.n }

// push inserts key at the front and returns its node.
func (l *recency) push(key string) *node {
	nd := &node{key: key}
	l.link(nd)
	return nd
}

// touch marks nd as most recently used.
func (l *recency) touch(nd *node) {
	if nd == l.head {
		return
	}
	l.unlink(nd)
	l.link(nd)
}

func (l *recency) remove(nd *node) {
	l.unlink(nd)
}

// evict removes the least recently used node and returns its key.
func (l *recency) evict() (string, bool) {
	if l.tail == nil {
		return "", false
	}
	nd := l.tail
	l.unlink(nd)
	return nd.key, true
}

func (l *recency) reset() {
	l.head, l.tail, l.n = nil, nil, 0
}

func (l *recency) link(nd *node) {
	nd.prev = nil
	nd.next = l.head
	if l.head != nil {
		l.head.prev = nd
	}
	l.head = nd
	if l.tail == nil {
		l.tail = nd
	}
	l.n++
}

func (l *recency) unlink(nd *node) {
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		l.head = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		l.tail = nd.prev
	}
	nd.prev, nd.next = nil, nil
	l.n--
}
