// Package viewport maps between pixel space and the complex plane.
//
// A view is described by a Focus: a circle in the complex plane that the
// renderer fits into the viewport so that it is never clipped on the long
// axis. Pixel coordinates use the usual raster convention (origin top-left,
// y down); the imaginary axis follows y.
package viewport

import "math"

// Point is a point in the complex plane (X real, Y imaginary).
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Size is a viewport size in pixels.
type Size struct {
	Width, Height int
}

// Sz is a convenience function to create a Size.
// Negative dimensions are clamped to zero.
func Sz(w, h int) Size {
	return Size{Width: max(w, 0), Height: max(h, 0)}
}

// Pixels returns the number of pixels covered by the size.
func (s Size) Pixels() int {
	return s.Width * s.Height
}

// Empty reports whether the size covers no pixels.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Focus is the circular region of the complex plane the view is centered on.
type Focus struct {
	Center Point
	Radius float64
}

// Default view parameters.
const (
	// HomeRadius is the radius of the initial view and the zoom-out limit.
	HomeRadius = 2.0
)

// Home returns the initial view of the whole Mandelbrot set.
func Home() Focus {
	return Focus{Center: Pt(-0.5, 0), Radius: HomeRadius}
}

// ZoomOut grows the radius by factor, clamped to home.
func (f Focus) ZoomOut(factor, home float64) Focus {
	r := f.Radius * factor
	if r > home {
		r = home
	}
	return Focus{Center: f.Center, Radius: r}
}

// ToWorld converts the pixel (px, py) of a viewport of the given size into a
// point in the complex plane.
//
// The pixel is normalized to [-1,1] on both axes and scaled by the focus
// radius. The axis of the smaller dimension is stretched by larger/smaller
// so that the focus circle stays fully visible.
func ToWorld(f Focus, size Size, px, py int) Point {
	w := float64(size.Width)
	h := float64(size.Height)

	xr := (float64(px)/w*2 - 1) * f.Radius
	yr := (float64(py)/h*2 - 1) * f.Radius
	if size.Width > size.Height {
		xr *= w / h
	} else {
		yr *= h / w
	}

	return Point{X: xr + f.Center.X, Y: yr + f.Center.Y}
}

// StageSize returns the pixel size of stage in a pipeline of stages levels
// whose last level has the full size. Each earlier stage halves both
// dimensions (floor division).
func StageSize(full Size, stage, stages int) Size {
	shift := stages - 1 - stage
	if shift <= 0 {
		return full
	}
	return Size{Width: full.Width >> shift, Height: full.Height >> shift}
}

// minSelectionArea is the smallest drag rectangle (in square pixels) that
// Select accepts as a zoom request.
const minSelectionArea = 4

// Select turns a drag rectangle in pixel space into a new focus.
//
// The new center is the midpoint of the rectangle's corners in world space
// and the radius is the smaller of the world-space extents. The second
// result is false when the rectangle is too small to be a deliberate zoom.
func Select(f Focus, size Size, x0, y0, x1, y1 int) (Focus, bool) {
	if size.Empty() {
		return f, false
	}
	area := math.Abs(float64(x1-x0)) * math.Abs(float64(y1-y0))
	if area < minSelectionArea {
		return f, false
	}

	p0 := ToWorld(f, size, max(x0, 0), max(y0, 0))
	p1 := ToWorld(f, size, max(x1, 0), max(y1, 0))

	return Focus{
		Center: Pt((p0.X+p1.X)/2, (p0.Y+p1.Y)/2),
		Radius: math.Min(math.Abs(p0.X-p1.X), math.Abs(p0.Y-p1.Y)),
	}, true
}
