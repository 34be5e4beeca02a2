package color

import (
	"math"

	"github.com/gogpu/fractal/internal/escape"
)

// Scheme maps an escape-time result to a pixel color.
type Scheme func(escape.Result) ColorU8

// Smooth colors a result by its normalized (continuous) iteration count.
//
// Points that never escaped are black. Otherwise hue and value both follow
// the smoothed count relative to the iteration budget, saturation is 1, and
// the red and blue channels are swapped.
func Smooth(res escape.Result) ColorU8 {
	if res.Iterations >= res.MaxIterations {
		return Black
	}

	n := SmoothIterations(res)
	maxIter := float64(res.MaxIterations)
	return HSV(360*n/maxIter, 1, 10*n/maxIter).SwapRB()
}

// SmoothIterations returns the continuous iteration count of an escaped
// result, offset by the extra iterations the kernel ran past escape.
func SmoothIterations(res escape.Result) float64 {
	return escape.ExtraIterations + float64(res.Iterations) -
		(math.Log2(0.5) - math.Log2(math.Log2(res.NormSqr)))
}
