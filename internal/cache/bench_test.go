package cache

import "testing"

func BenchmarkFramesGet(b *testing.B) {
	c := NewFrames(0)
	for r := range 100 {
		c.Put(key(float64(r)), frame(64, 64, 0))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(key(50))
	}
}

func BenchmarkFramesPutEvict(b *testing.B) {
	c := NewFrames(10 * 64 * 64 * 4)
	img := frame(64, 64, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(key(float64(i%100)), img)
	}
}
