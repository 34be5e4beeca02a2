package fractal

import "github.com/gogpu/fractal/internal/viewport"

// Size is a view size in pixels.
type Size = viewport.Size

// Point is a point of the complex plane.
type Point = viewport.Point

// Focus is the region of the complex plane shown by a view: a center and
// the radius of the largest circle that fits.
type Focus = viewport.Focus

// HomeRadius is the radius of the default view. Callers clamp zoom-out to it.
const HomeRadius = viewport.HomeRadius

// Sz is a convenience function to create a Size.
func Sz(w, h int) Size {
	return viewport.Sz(w, h)
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return viewport.Pt(x, y)
}

// Home returns the focus showing the whole set.
func Home() Focus {
	return viewport.Home()
}
