// Package cache keeps finished renders in memory so a viewer can show a
// view it has already computed without waiting for the renderer.
//
// # Frames
//
// Frames is an LRU cache of completed images keyed by view (size and focus).
// Its limit is a byte budget rather than an entry count, since a single
// full-screen frame can be several megabytes:
//
//	frames := cache.NewFrames(64 << 20)
//	frames.Put(cache.KeyOf(size, focus), img)
//	img, ok := frames.Get(cache.KeyOf(size, focus))
//
// # Thread Safety
//
// Frames is safe for concurrent use and must not be copied after creation.
package cache
