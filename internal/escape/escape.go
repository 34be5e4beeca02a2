// Package escape implements the Mandelbrot escape-time kernel.
package escape

import (
	"math"

	"github.com/gogpu/fractal/internal/viewport"
)

// DefaultRadiusSqr is the squared escape radius used by the renderer.
const DefaultRadiusSqr = 100.0

// ExtraIterations is the number of iterations run after the orbit escapes
// (or the budget runs out), for smooth coloring.
const ExtraIterations = 5

// Result describes how a point behaved under iteration.
type Result struct {
	// MaxIterations is the iteration budget the point was given.
	MaxIterations int

	// Iterations is the number of iterations run until termination.
	// Equal to MaxIterations when the point did not escape.
	Iterations int

	// NormSqr is |z|² after the extra iterations.
	NormSqr float64
}

// Escaped reports whether the orbit left the escape radius within budget.
func (r Result) Escaped() bool {
	return r.Iterations < r.MaxIterations
}

// MaxIterations returns the iteration budget for a view of the given radius.
// Smaller radii (deeper zoom) get a larger budget. The budget is at least 1.
func MaxIterations(radius float64) int {
	return max(int(math.Floor(223/math.Sqrt(0.001+2*radius))), 1)
}

// Mandelbrot iterates z ← z² + c from z = 0.
//
// Iteration stops once |z|² exceeds escapeRadiusSqr or maxIter iterations
// have run, followed by ExtraIterations more steps.
func Mandelbrot(c viewport.Point, escapeRadiusSqr float64, maxIter int) Result {
	var zr, zi, zr2, zi2 float64
	iter := 0
	extra := 0

	for {
		zi = 2*zr*zi + c.Y
		zr = zr2 - zi2 + c.X
		zr2 = zr * zr
		zi2 = zi * zi

		if extra == 0 {
			iter++
			if iter >= maxIter || zr2+zi2 > escapeRadiusSqr {
				extra = 1
			}
			continue
		}
		extra++
		if extra > ExtraIterations {
			break
		}
	}

	return Result{
		MaxIterations: maxIter,
		Iterations:    iter,
		NormSqr:       zr2 + zi2,
	}
}
