package fractal

import (
	"math"
	"time"

	"github.com/gogpu/fractal/internal/escape"
	"github.com/gogpu/fractal/internal/parallel"
)

// DefaultFrameBudget is how long Update computes in-line when the renderer
// runs without background workers.
const DefaultFrameBudget = 30 * time.Millisecond

// Option configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// One background goroutine per CPU, 4 stages
//	r := fractal.New()
//
//	// Render in-line on the caller's goroutine
//	r := fractal.New(fractal.WithWorkers(1), fractal.WithFrameBudget(15*time.Millisecond))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	pool   parallel.Config
	budget time.Duration
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		pool: parallel.Config{
			Workers:         0, // GOMAXPROCS
			Stages:          parallel.DefaultStages,
			BatchSize:       parallel.DefaultBatchSize,
			EscapeRadiusSqr: escape.DefaultRadiusSqr,
			Idle:            parallel.DefaultIdle,
		},
		budget: DefaultFrameBudget,
	}
}

// WithWorkers sets the number of workers. Values of 0 or less use
// GOMAXPROCS. With exactly one worker no goroutine is started and Update
// computes in-line for at most the frame budget.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.pool.Workers = n
	}
}

// WithBatchSize sets the number of pixels a worker claims at a time.
// Values of 0 or less keep the default.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pool.BatchSize = n
		}
	}
}

// WithStages sets the number of resolution levels. Each stage doubles the
// linear resolution of the one before; the last is the full view.
// Values of 0 or less keep the default.
func WithStages(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pool.Stages = n
		}
	}
}

// WithEscapeRadius sets the escape radius of the kernel (not squared).
// Non-positive and non-finite values keep the default.
func WithEscapeRadius(r float64) Option {
	return func(o *options) {
		if r > 0 && !math.IsInf(r, 1) {
			o.pool.EscapeRadiusSqr = r * r
		}
	}
}

// WithFrameBudget sets how long Update may compute in-line when running
// without background workers. Values of 0 or less keep the default.
func WithFrameBudget(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.budget = d
		}
	}
}

// WithIdleInterval sets how long an idle background worker sleeps before
// polling again. Workers are also woken by Resize and stage advances.
// Values of 0 or less keep the default.
func WithIdleInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pool.Idle = d
		}
	}
}
