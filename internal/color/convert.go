package color

import "math"

// HSV converts a hue/saturation/value triple to an opaque ColorU8.
//
// h is in degrees and taken modulo 360; s is in [0,1]; v is clamped to [0,1].
// Uses the standard six-sector formula.
func HSV(h, s, v float64) ColorU8 {
	v = clamp01(v)
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	hp := h / 60
	c := v * s
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := v - c
	return ColorU8{
		R: clampAndRound(r + m),
		G: clampAndRound(g + m),
		B: clampAndRound(b + m),
		A: 255,
	}
}

// clamp01 restricts v to [0,1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampAndRound clamps a float64 to [0,1] and converts to uint8 with rounding.
// NaN maps to 0.
func clampAndRound(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	// Round to nearest integer
	return uint8(v*255.0 + 0.5)
}
