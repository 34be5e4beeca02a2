package parallel

import (
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/fractal/internal/color"
	"github.com/gogpu/fractal/internal/escape"
	"github.com/gogpu/fractal/internal/viewport"
)

// Config holds the tuning parameters shared by every worker of a pool.
type Config struct {
	// Workers is the pool size. If 0 or negative, GOMAXPROCS is used.
	Workers int

	// Stages is the number of resolution levels (coarsest first).
	Stages int

	// BatchSize is the number of pixels claimed per Step.
	BatchSize int

	// EscapeRadiusSqr is the squared escape radius of the kernel.
	EscapeRadiusSqr float64

	// Scheme colors kernel results. Defaults to color.Smooth.
	Scheme color.Scheme

	// Idle is how long a worker with nothing to do sleeps before polling
	// again. Workers are also woken early on resize and stage changes.
	Idle time.Duration
}

// DefaultIdle is the default polling interval of an idle worker.
const DefaultIdle = 10 * time.Millisecond

// withDefaults returns cfg with invalid fields replaced by defaults.
func (cfg Config) withDefaults() Config {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Stages <= 0 {
		cfg.Stages = DefaultStages
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if !(cfg.EscapeRadiusSqr > 0) {
		cfg.EscapeRadiusSqr = escape.DefaultRadiusSqr
	}
	if cfg.Scheme == nil {
		cfg.Scheme = color.Smooth
	}
	if cfg.Idle <= 0 {
		cfg.Idle = DefaultIdle
	}
	return cfg
}

// Input is the view a worker renders. It is replaced wholesale on resize;
// Stage and Quit change independently.
type Input struct {
	Size  viewport.Size
	Focus viewport.Focus
	Stage int
	Quit  bool
}

// Status reports the outcome of a Step.
type Status uint8

const (
	// StatusComputed means a batch was computed and committed.
	StatusComputed Status = iota

	// StatusDiscarded means the input changed while the batch was being
	// computed and the result was dropped.
	StatusDiscarded

	// StatusComplete means every batch of the current stage is claimed.
	StatusComplete

	// StatusQuit means the worker has been asked to stop.
	StatusQuit
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusComputed:
		return "Computed"
	case StatusDiscarded:
		return "Discarded"
	case StatusComplete:
		return "Complete"
	case StatusQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Worker computes its share of batches of the current stage.
//
// All mutable state is guarded by mu. The orchestrator reads and updates it
// only through methods, which hold the lock briefly.
type Worker struct {
	id  int
	cfg Config

	mu         sync.Mutex
	input      Input
	gen        uint64 // bumped on every Reset and SetStage
	batchIndex int    // next unclaimed batch of the current stage
	complete   bool
	buffers    [][]byte // one reusable buffer per stage

	// scratch holds one batch computed outside the lock. It is only touched
	// by Step, which runs on a single goroutine at a time.
	scratch []byte

	wake chan struct{}
}

// NewWorker creates worker id of a pool configured by cfg.
func NewWorker(id int, cfg Config) *Worker {
	cfg = cfg.withDefaults()
	return &Worker{
		id:      id,
		cfg:     cfg,
		buffers: make([][]byte, cfg.Stages),
		scratch: make([]byte, cfg.BatchSize*BytesPerPixel),
		wake:    make(chan struct{}, 1),
	}
}

// ID returns the worker index.
func (w *Worker) ID() int {
	return w.id
}

// stageSize returns the pixel size of the input's current stage.
func (w *Worker) stageSize(in Input) viewport.Size {
	return viewport.StageSize(in.Size, in.Stage, w.cfg.Stages)
}

// Step claims and computes the next batch of the current stage.
//
// The input is read under the lock, the batch is computed outside of it,
// and the result is committed only if no Reset or SetStage happened in the
// meantime. Stale batches are dropped; the next Step starts over against
// the new input.
func (w *Worker) Step() Status {
	w.mu.Lock()
	in, gen, k, complete := w.input, w.gen, w.batchIndex, w.complete
	w.mu.Unlock()

	if in.Quit {
		return StatusQuit
	}
	if complete {
		return StatusComplete
	}

	size := w.stageSize(in)
	start, end, ok := BatchRange(k, w.id, w.cfg.Workers, w.cfg.BatchSize, size.Pixels())
	if !ok {
		w.mu.Lock()
		if w.gen == gen {
			w.complete = true
		}
		w.mu.Unlock()
		return StatusComplete
	}

	n := (end - start) * BytesPerPixel
	w.compute(in.Focus, size, start, end, w.scratch[:n])

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return StatusDiscarded
	}
	off := k * w.cfg.BatchSize * BytesPerPixel
	copy(w.buffers[in.Stage][off:off+n], w.scratch[:n])
	w.batchIndex++
	return StatusComputed
}

// compute renders pixels [start, end) of a stage of the given size into dst.
func (w *Worker) compute(f viewport.Focus, size viewport.Size, start, end int, dst []byte) {
	maxIter := escape.MaxIterations(f.Radius)
	for i := start; i < end; i++ {
		c := viewport.ToWorld(f, size, i%size.Width, i/size.Width)
		res := escape.Mandelbrot(c, w.cfg.EscapeRadiusSqr, maxIter)
		w.cfg.Scheme(res).Put(dst[(i-start)*BytesPerPixel:])
	}
}

// Run steps the worker until it is asked to quit. When the current stage is
// complete it sleeps for the idle interval or until woken.
func (w *Worker) Run() {
	timer := time.NewTimer(w.cfg.Idle)
	defer timer.Stop()

	for {
		switch w.Step() {
		case StatusQuit:
			return
		case StatusComplete:
			timer.Reset(w.cfg.Idle)
			select {
			case <-w.wake:
			case <-timer.C:
			}
		}
	}
}

// signal wakes the worker if it is idle. It never blocks.
func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Reset replaces the input with a new view at stage 0.
func (w *Worker) Reset(size viewport.Size, focus viewport.Focus) {
	w.mu.Lock()
	quit := w.input.Quit
	w.input = Input{Size: size, Focus: focus, Quit: quit}
	w.enterStage(0)
	w.mu.Unlock()
	w.signal()
}

// SetStage moves the worker to stage, discarding progress on the current one.
func (w *Worker) SetStage(stage int) {
	if stage < 0 || stage >= w.cfg.Stages {
		return
	}
	w.mu.Lock()
	w.enterStage(stage)
	w.mu.Unlock()
	w.signal()
}

// enterStage resets per-stage state and clears the stage buffer to
// transparent. Callers must hold mu.
func (w *Worker) enterStage(stage int) {
	w.input.Stage = stage
	w.gen++
	w.batchIndex = 0
	w.complete = false

	total := w.stageSize(w.input).Pixels()
	n := (OwnedPixels(total, w.cfg.Workers, w.id, w.cfg.BatchSize, -1) + w.cfg.BatchSize) * BytesPerPixel
	buf := slices.Grow(w.buffers[stage][:0], n)[:n]
	clear(buf)
	w.buffers[stage] = buf
}

// Quit asks the worker to stop. Run returns after the current batch.
func (w *Worker) Quit() {
	w.mu.Lock()
	w.input.Quit = true
	w.mu.Unlock()
	w.signal()
}

// StageComplete reports whether the worker is on stage and has claimed all
// of its batches.
func (w *Worker) StageComplete(stage int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input.Stage == stage && w.complete
}

// Stage returns the worker's current stage.
func (w *Worker) Stage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input.Stage
}

// CopyTo copies every batch the worker has committed for stage into dst,
// the row-major RGBA8 image of that stage for a view of the given full size.
//
// Nothing is copied when the worker is on another stage or view, or when
// dst does not have the stage's length. Copying is idempotent.
func (w *Worker) CopyTo(dst []byte, full viewport.Size, stage int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.input.Stage != stage || w.input.Size != full {
		return
	}
	total := w.stageSize(w.input).Pixels()
	if len(dst) != total*BytesPerPixel {
		return
	}

	buf := w.buffers[stage]
	for k := range w.batchIndex {
		start, end, ok := BatchRange(k, w.id, w.cfg.Workers, w.cfg.BatchSize, total)
		if !ok {
			break
		}
		off := k * w.cfg.BatchSize * BytesPerPixel
		n := (end - start) * BytesPerPixel
		copy(dst[start*BytesPerPixel:start*BytesPerPixel+n], buf[off:off+n])
	}
}

// Progress returns the fraction of the worker's share of all stages that has
// been computed, in [0,1]. A worker with no pixels to render reports 1.
func (w *Worker) Progress() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	var done, total int
	for s := range w.cfg.Stages {
		pixels := viewport.StageSize(w.input.Size, s, w.cfg.Stages).Pixels()
		owned := OwnedPixels(pixels, w.cfg.Workers, w.id, w.cfg.BatchSize, -1)
		total += owned
		switch {
		case s < w.input.Stage:
			done += owned
		case s == w.input.Stage:
			done += OwnedPixels(pixels, w.cfg.Workers, w.id, w.cfg.BatchSize, w.batchIndex)
		}
	}

	if total == 0 {
		return 1
	}
	return min(float64(done)/float64(total), 1)
}
