package parallel

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/gogpu/fractal/internal/viewport"
)

// =============================================================================
// Pool Scaling Benchmarks
// =============================================================================
//
// Run with: go test -bench=BenchmarkPool -benchtime=20x ./internal/parallel/...
//
// =============================================================================

// renderStage resets pool to the view and waits for stage 0.
func renderStage(b *testing.B, pool *WorkerPool, size viewport.Size, f viewport.Focus) {
	b.Helper()
	pool.Reset(size, f)
	for !pool.StageComplete(0) {
		if pool.Synchronous() {
			pool.RunFor(DefaultIdle)
		} else {
			runtime.Gosched()
		}
	}
}

func BenchmarkPool_Workers(b *testing.B) {
	size := viewport.Sz(640, 480)
	focus := viewport.Focus{Center: viewport.Pt(-0.75, 0.1), Radius: 0.05}

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			pool := NewWorkerPool(Config{Workers: workers, Stages: 1, Idle: DefaultIdle})
			defer pool.Close()

			b.ReportAllocs()
			for b.Loop() {
				// Alternate views so every Reset starts from scratch.
				renderStage(b, pool, size, focus)
				renderStage(b, pool, size, focus.ZoomOut(2, viewport.HomeRadius))
			}
		})
	}
}

func BenchmarkPool_BatchSize(b *testing.B) {
	size := viewport.Sz(640, 480)
	for _, batch := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("batch=%d", batch), func(b *testing.B) {
			pool := NewWorkerPool(Config{Workers: 4, Stages: 1, BatchSize: batch})
			defer pool.Close()

			for b.Loop() {
				renderStage(b, pool, size, viewport.Home())
				renderStage(b, pool, size, viewport.Focus{Center: viewport.Pt(-0.5, 0), Radius: 1.5})
			}
		})
	}
}

func BenchmarkWorker_Step(b *testing.B) {
	w := NewWorker(0, Config{Workers: 1, Stages: 1})
	full := viewport.Sz(1024, 1024)
	w.Reset(full, viewport.Home())

	b.ReportAllocs()
	for b.Loop() {
		if w.Step() == StatusComplete {
			w.Reset(full, viewport.Home())
		}
	}
}
