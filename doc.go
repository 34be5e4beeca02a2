// Package fractal renders views of the Mandelbrot set progressively and in
// parallel.
//
// # Overview
//
// A Renderer splits the pixels of a view into fixed-size batches that are
// interleaved across a pool of workers, one goroutine each. The view is
// computed in stages: the first at 1/2^(n-1) of the final resolution, each
// following one at twice the previous, the last at full size. A display loop
// therefore gets a coarse image almost immediately, and a sharper one every
// time a stage completes.
//
// # Quick Start
//
//	import "github.com/gogpu/fractal"
//
//	r := fractal.New()
//	defer r.Stop()
//
//	r.Resize(fractal.Sz(800, 600), fractal.Home())
//
//	// Once per frame:
//	frame := r.Update(img)
//	img = frame.Image
//	draw(img, frame.Progress)
//
// # Stages and Progress
//
// Update merges the batches the workers have finished into the caller's
// image. Once every worker has finished the current stage Update moves to
// the next one and returns a nearest-neighbour upscale of the finished
// stage, which the finer stage then overwrites batch by batch. Progress
// counts pixels of all stages, so it grows steadily from 0 to 1 over the
// whole render rather than once per stage.
//
// Resize abandons the current view. Batches a worker was computing for the
// old view are dropped when they finish, and the next Update shows only
// pixels of the new view.
//
// # Coordinate System
//
// A Focus is a center in the complex plane and a radius. The radius spans
// half of the shorter side of the view; the longer side shows
// proportionally more. Pixel (0,0) is the top-left corner, x increases
// right, y increases down, and the imaginary axis points down as well.
//
// # Synchronous Mode
//
// With WithWorkers(1) no goroutines are started. Update then computes
// batches on the calling goroutine for at most the frame budget
// (DefaultFrameBudget unless set with WithFrameBudget) before returning.
//
// # Logging
//
// The package is silent by default. See SetLogger.
package fractal

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
