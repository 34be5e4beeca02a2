package parallel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/fractal/internal/viewport"
)

// WorkerPool owns the workers of a staged render and their goroutines.
//
// With more than one worker each worker runs its own goroutine, polling for
// work until Close. With a single worker no goroutine is started and the
// caller drives the worker through RunFor instead.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	cfg     Config
	workers []*Worker

	// synchronous is true when no background goroutines run.
	synchronous bool

	// wg waits for all worker goroutines to finish.
	wg sync.WaitGroup

	// running indicates whether the pool has not been closed yet.
	running atomic.Bool
}

// NewWorkerPool creates a pool configured by cfg.
// If cfg.Workers is 0 or negative, GOMAXPROCS is used.
// Background workers start immediately and idle until the first Reset.
func NewWorkerPool(cfg Config) *WorkerPool {
	cfg = cfg.withDefaults()

	p := &WorkerPool{
		cfg:         cfg,
		workers:     make([]*Worker, cfg.Workers),
		synchronous: cfg.Workers == 1,
	}
	for i := range cfg.Workers {
		p.workers[i] = NewWorker(i, cfg)
	}

	p.running.Store(true)

	if !p.synchronous {
		p.wg.Add(len(p.workers))
		for _, w := range p.workers {
			go func() {
				defer p.wg.Done()
				w.Run()
			}()
		}
	}

	return p
}

// Config returns the effective configuration after defaults were applied.
func (p *WorkerPool) Config() Config {
	return p.cfg
}

// Workers returns the pool's workers.
func (p *WorkerPool) Workers() []*Worker {
	return p.workers
}

// Synchronous reports whether the pool runs without background goroutines.
func (p *WorkerPool) Synchronous() bool {
	return p.synchronous
}

// IsRunning returns true until Close is called.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// RunFor steps the workers on the calling goroutine until every worker is
// idle or budget has elapsed, and returns the number of committed batches.
// At least one Step per worker is attempted. Intended for synchronous pools;
// on a background pool it competes with the workers' own goroutines and is
// a no-op.
func (p *WorkerPool) RunFor(budget time.Duration) int {
	if !p.synchronous || !p.running.Load() {
		return 0
	}

	deadline := time.Now().Add(budget)
	computed := 0
	for {
		busy := false
		for _, w := range p.workers {
			switch w.Step() {
			case StatusComputed:
				computed++
				busy = true
			case StatusDiscarded:
				busy = true
			}
		}
		if !busy || !time.Now().Before(deadline) {
			return computed
		}
	}
}

// Reset broadcasts a new view to every worker and restarts at stage 0.
func (p *WorkerPool) Reset(size viewport.Size, focus viewport.Focus) {
	for _, w := range p.workers {
		w.Reset(size, focus)
	}
}

// SetStage moves every worker to stage.
func (p *WorkerPool) SetStage(stage int) {
	for _, w := range p.workers {
		w.SetStage(stage)
	}
}

// StageComplete reports whether every worker has finished stage.
func (p *WorkerPool) StageComplete(stage int) bool {
	for _, w := range p.workers {
		if !w.StageComplete(stage) {
			return false
		}
	}
	return true
}

// CopyTo merges every worker's committed batches of stage into dst.
func (p *WorkerPool) CopyTo(dst []byte, full viewport.Size, stage int) {
	for _, w := range p.workers {
		w.CopyTo(dst, full, stage)
	}
}

// Progress returns the mean progress of all workers, capped at 1.
func (p *WorkerPool) Progress() float64 {
	if len(p.workers) == 0 {
		return 0
	}
	var sum float64
	for _, w := range p.workers {
		sum += w.Progress()
	}
	return min(sum/float64(len(p.workers)), 1)
}

// Close stops all workers and waits for their goroutines to exit.
// A batch in flight is finished (and dropped if stale) first.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		// Already closed
		return
	}

	for _, w := range p.workers {
		w.Quit()
	}

	p.wg.Wait()
}
