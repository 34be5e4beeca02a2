package cache

import (
	"image"
	"slices"
	"sync"

	"github.com/gogpu/fractal/internal/viewport"
)

// Key identifies a view.
type Key struct {
	Size  viewport.Size
	Focus viewport.Focus
}

// KeyOf returns the key of the view with the given size and focus.
func KeyOf(size viewport.Size, focus viewport.Focus) Key {
	return Key{Size: size, Focus: focus}
}

// Frames is an LRU cache of finished images with a byte budget.
// Stored images are private copies; Get returns the cached image itself,
// which callers must not modify.
type Frames struct {
	mu      sync.Mutex
	entries map[Key]*frameEntry
	lru     lruList[Key]
	limit   int
	bytes   int
	stats   Stats
}

type frameEntry struct {
	img  *image.RGBA
	node *lruNode[Key]
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Bytes is the pixel memory held by the entries.
	Bytes int
	// Limit is the byte budget.
	Limit int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// Evictions is the number of entries dropped to stay within the budget.
	Evictions uint64
}

// NewFrames creates a cache holding at most limit bytes of pixels.
// A limit of 0 or less means unlimited.
func NewFrames(limit int) *Frames {
	return &Frames{
		entries: make(map[Key]*frameEntry),
		limit:   limit,
	}
}

// Get returns the image stored for k and marks it as recently used.
func (c *Frames) Get(k Key) (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.lru.MoveToFront(e.node)
	return e.img, true
}

// Put stores a copy of img for k, replacing any previous image, and evicts
// the least recently used entries until the budget holds. An image larger
// than the whole budget is not stored. Put reports whether img was stored.
func (c *Frames) Put(k Key, img *image.RGBA) bool {
	if img == nil {
		return false
	}
	n := len(img.Pix)
	if c.limit > 0 && n > c.limit {
		return false
	}

	cp := &image.RGBA{
		Pix:    slices.Clone(img.Pix),
		Stride: img.Stride,
		Rect:   img.Rect,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[k]; ok {
		c.bytes -= len(old.img.Pix)
		old.img = cp
		c.lru.MoveToFront(old.node)
	} else {
		c.entries[k] = &frameEntry{img: cp, node: c.lru.PushFront(k)}
	}
	c.bytes += n

	for c.limit > 0 && c.bytes > c.limit {
		c.evictOldest()
	}
	return true
}

// evictOldest drops the least recently used entry. Caller must hold c.mu.
func (c *Frames) evictOldest() {
	k, ok := c.lru.RemoveOldest()
	if !ok {
		return
	}
	c.bytes -= len(c.entries[k].img.Pix)
	delete(c.entries, k)
	c.stats.Evictions++
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Frames) Delete(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return false
	}
	c.lru.Remove(e.node)
	c.bytes -= len(e.img.Pix)
	delete(c.entries, k)
	return true
}

// Clear removes all entries from the cache.
func (c *Frames) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.lru = lruList[Key]{}
	c.bytes = 0
}

// Len returns the number of entries in the cache.
func (c *Frames) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Frames) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Len = len(c.entries)
	s.Bytes = c.bytes
	s.Limit = c.limit
	return s
}
