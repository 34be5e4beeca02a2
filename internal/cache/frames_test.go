package cache

import (
	"image"
	"sync"
	"testing"

	"github.com/gogpu/fractal/internal/viewport"
)

// frame returns a w×h image whose first byte is tag.
func frame(w, h int, tag byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Pix[0] = tag
	return img
}

func key(radius float64) Key {
	return KeyOf(viewport.Sz(4, 4), viewport.Focus{Radius: radius})
}

// =============================================================================
// Get / Put Tests
// =============================================================================

func TestFrames_GetPut(t *testing.T) {
	c := NewFrames(0)

	if _, ok := c.Get(key(1)); ok {
		t.Error("Get() on empty cache reported a hit")
	}

	src := frame(4, 4, 7)
	if !c.Put(key(1), src) {
		t.Fatal("Put() = false")
	}
	got, ok := c.Get(key(1))
	if !ok {
		t.Fatal("Get() after Put missed")
	}
	if got == src {
		t.Error("Put() stored the caller's image instead of a copy")
	}
	if got.Pix[0] != 7 || got.Rect != src.Rect {
		t.Errorf("Get() = %v tag %d, want %v tag 7", got.Rect, got.Pix[0], src.Rect)
	}

	// Later changes to the source do not leak into the cache.
	src.Pix[0] = 9
	if got, _ := c.Get(key(1)); got.Pix[0] != 7 {
		t.Error("cached image changed with its source")
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Len != 1 || s.Bytes != 64 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestFrames_PutReplaces(t *testing.T) {
	c := NewFrames(0)
	c.Put(key(1), frame(4, 4, 1))
	c.Put(key(1), frame(8, 8, 2))

	got, _ := c.Get(key(1))
	if got.Pix[0] != 2 {
		t.Errorf("Get() tag = %d, want 2", got.Pix[0])
	}
	if s := c.Stats(); s.Len != 1 || s.Bytes != 8*8*4 {
		t.Errorf("Stats() = %+v, want one 256-byte entry", s)
	}
}

func TestFrames_KeysDistinguishViews(t *testing.T) {
	c := NewFrames(0)
	f := viewport.Home()
	c.Put(KeyOf(viewport.Sz(4, 4), f), frame(4, 4, 1))

	if _, ok := c.Get(KeyOf(viewport.Sz(4, 5), f)); ok {
		t.Error("hit for another size")
	}
	if _, ok := c.Get(KeyOf(viewport.Sz(4, 4), f.ZoomOut(0.5, viewport.HomeRadius))); ok {
		t.Error("hit for another focus")
	}
}

func TestFrames_PutNilOrTooLarge(t *testing.T) {
	c := NewFrames(100)
	if c.Put(key(1), nil) {
		t.Error("Put(nil) = true")
	}
	if c.Put(key(1), frame(8, 8, 1)) {
		t.Error("Put() stored an image larger than the budget")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

// =============================================================================
// Eviction Tests
// =============================================================================

func TestFrames_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewFrames(3 * 64) // three 4x4 frames

	c.Put(key(1), frame(4, 4, 1))
	c.Put(key(2), frame(4, 4, 2))
	c.Put(key(3), frame(4, 4, 3))
	c.Get(key(1)) // 2 is now the oldest

	c.Put(key(4), frame(4, 4, 4))

	if _, ok := c.Get(key(2)); ok {
		t.Error("least recently used entry survived")
	}
	for _, r := range []float64{1, 3, 4} {
		if _, ok := c.Get(key(r)); !ok {
			t.Errorf("entry %v evicted", r)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Bytes != 3*64 {
		t.Errorf("Stats() = %+v, want 1 eviction and 192 bytes", s)
	}
}

func TestFrames_LargeFrameEvictsSeveral(t *testing.T) {
	c := NewFrames(256)
	for r := range 4 {
		c.Put(key(float64(r)), frame(4, 4, byte(r)))
	}
	c.Put(key(9), frame(6, 6, 9)) // 144 bytes

	if s := c.Stats(); s.Bytes > 256 || s.Len != 2 {
		t.Errorf("Stats() = %+v, want 2 entries within 256 bytes", s)
	}
	if _, ok := c.Get(key(9)); !ok {
		t.Error("newest entry evicted")
	}
}

func TestFrames_DeleteClear(t *testing.T) {
	c := NewFrames(0)
	c.Put(key(1), frame(4, 4, 1))
	c.Put(key(2), frame(4, 4, 2))

	if !c.Delete(key(1)) {
		t.Error("Delete() = false for a present key")
	}
	if c.Delete(key(1)) {
		t.Error("Delete() = true for a missing key")
	}
	if s := c.Stats(); s.Len != 1 || s.Bytes != 64 {
		t.Errorf("Stats() after Delete = %+v", s)
	}

	c.Clear()
	if s := c.Stats(); s.Len != 0 || s.Bytes != 0 {
		t.Errorf("Stats() after Clear = %+v", s)
	}
	c.Put(key(3), frame(4, 4, 3))
	if _, ok := c.Get(key(3)); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestFrames_Concurrent(t *testing.T) {
	c := NewFrames(10 * 64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := key(float64((g + i) % 16))
				if i%3 == 0 {
					c.Put(k, frame(4, 4, byte(i)))
				} else {
					c.Get(k)
				}
			}
		}()
	}
	wg.Wait()

	if s := c.Stats(); s.Bytes > 10*64 || s.Len > 10 {
		t.Errorf("Stats() = %+v, over budget", s)
	}
}
