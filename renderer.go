package fractal

import (
	"image"
	"time"

	imgutil "github.com/gogpu/fractal/internal/image"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/internal/viewport"
)

// Frame is the result of an Update: the best image available so far and
// the overall completion of the render.
type Frame struct {
	// Image holds the current stage, row-major RGBA8. Pixels not computed
	// yet have zero alpha. Pass it back to the next Update.
	Image *image.RGBA

	// Width and Height are the dimensions of the current stage. They grow
	// as the render advances through its stages.
	Width, Height int

	// Progress is the completion of all stages of the current view, in
	// [0,1]. It never decreases between two Resize calls.
	Progress float64
}

// Renderer computes a view of the Mandelbrot set progressively: first at a
// coarse resolution, then at successively doubled resolutions until the full
// size is reached. Work is split across a fixed pool of workers.
//
// A Renderer is driven from a single goroutine, usually the display loop:
// Resize whenever the view changes, Update once per frame, Stop on shutdown.
// It is not safe for concurrent use.
//
// Example:
//
//	r := fractal.New()
//	defer r.Stop()
//
//	r.Resize(fractal.Sz(800, 600), fractal.Home())
//	var img *image.RGBA
//	for {
//	    f := r.Update(img)
//	    img = f.Image
//	    if f.Progress == 1 {
//	        break
//	    }
//	    time.Sleep(16 * time.Millisecond)
//	}
type Renderer struct {
	pool   *parallel.WorkerPool
	stages int
	budget time.Duration

	size  viewport.Size
	focus viewport.Focus
	stage int

	// discard is set by Resize: the next Update must not show any pixel
	// of the caller's buffer.
	discard bool
}

// New creates a Renderer and starts its workers. The renderer shows
// nothing until the first Resize.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := parallel.NewWorkerPool(o.pool)
	cfg := pool.Config()

	Logger().Info("fractal: renderer started",
		"workers", cfg.Workers,
		"synchronous", pool.Synchronous(),
		"stages", cfg.Stages,
		"batch", cfg.BatchSize)

	return &Renderer{
		pool:   pool,
		stages: cfg.Stages,
		budget: o.budget,
	}
}

// Workers returns the number of workers.
func (r *Renderer) Workers() int {
	return len(r.pool.Workers())
}

// Stages returns the number of resolution levels.
func (r *Renderer) Stages() int {
	return r.stages
}

// Stage returns the index of the stage currently being computed.
func (r *Renderer) Stage() int {
	return r.stage
}

// Size returns the full view size set by the last Resize.
func (r *Renderer) Size() Size {
	return r.size
}

// Focus returns the focus set by the last Resize.
func (r *Renderer) Focus() Focus {
	return r.focus
}

// Resize starts rendering a new view. Calling it with the current size and
// focus does nothing; otherwise all work on the previous view is abandoned
// and rendering restarts at the coarsest stage.
func (r *Renderer) Resize(size Size, focus Focus) {
	size = viewport.Sz(size.Width, size.Height)
	if size == r.size && focus == r.focus {
		return
	}

	r.size = size
	r.focus = focus
	r.stage = 0
	r.discard = true
	r.pool.Reset(size, focus)

	Logger().Debug("fractal: resize",
		"size", size.String(),
		"x", focus.Center.X,
		"y", focus.Center.Y,
		"radius", focus.Radius)
}

// Update collects the work finished since the last call and returns the
// current stage image together with the overall progress.
//
// dst is reused when it already has the current stage's dimensions and
// replaced otherwise; nil is fine. Callers should pass the previous
// Frame.Image back in. When the current stage is complete Update moves on
// to the next one and returns an upscaled copy of the finished stage as a
// preview, which fills in as the finer stage is computed.
//
// Without background workers, Update computes in-line for at most the
// frame budget before returning.
func (r *Renderer) Update(dst *image.RGBA) Frame {
	if r.pool.Synchronous() {
		start := time.Now()
		n := r.pool.RunFor(r.budget)
		Logger().Debug("fractal: in-line batches",
			"batches", n,
			"elapsed", time.Since(start))
	}

	cur := viewport.StageSize(r.size, r.stage, r.stages)
	dst = imgutil.Ensure(dst, cur.Width, cur.Height)
	if r.discard {
		imgutil.Clear(dst)
		r.discard = false
	}

	// Completion and progress are sampled before merging so that every
	// batch they account for is already in dst.
	complete := r.pool.StageComplete(r.stage)
	progress := r.progress()
	r.pool.CopyTo(dst.Pix, r.size, r.stage)

	if complete && r.stage < r.stages-1 {
		r.stage++
		r.pool.SetStage(r.stage)

		next := viewport.StageSize(r.size, r.stage, r.stages)
		preview := image.NewRGBA(image.Rect(0, 0, next.Width, next.Height))
		imgutil.Upsample(preview, dst)
		dst = preview

		Logger().Debug("fractal: stage advanced",
			"stage", r.stage,
			"size", next.String(),
			"progress", progress)
	}

	return Frame{
		Image:    dst,
		Width:    dst.Rect.Dx(),
		Height:   dst.Rect.Dy(),
		Progress: progress,
	}
}

// progress returns the pool's progress, or 0 before the first Resize.
func (r *Renderer) progress() float64 {
	if r.size.Empty() {
		return 0
	}
	return r.pool.Progress()
}

// Stop asks every worker to quit and waits for their goroutines to exit.
// Stop is safe to call multiple times. Update still returns the last
// merged image afterwards but no further work is done.
func (r *Renderer) Stop() {
	if !r.pool.IsRunning() {
		return
	}
	r.pool.Close()
	Logger().Info("fractal: renderer stopped")
}
