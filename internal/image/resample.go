package image

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Upsample fills dst with a nearest-neighbour rescale of src.
//
// The largest centered region of src with dst's aspect ratio is stretched
// over all of dst, so a preview computed at a slightly different aspect
// (floor-divided stage sizes) is cropped rather than distorted. Reads never
// leave src's bounds. If either image is empty, dst is left unchanged.
func Upsample(dst, src *image.RGBA) {
	sr := CropToAspect(src.Bounds(), dst.Bounds().Dx(), dst.Bounds().Dy())
	if sr.Empty() || dst.Bounds().Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, sr, xdraw.Src, nil)
}

// CropToAspect returns the largest rectangle centered in r whose aspect
// ratio matches w:h. The result is always contained in r and is empty when
// r, w or h is.
func CropToAspect(r image.Rectangle, w, h int) image.Rectangle {
	if r.Empty() || w <= 0 || h <= 0 {
		return image.Rectangle{}
	}

	sw, sh := r.Dx(), r.Dy()
	cw, ch := sw, sh
	if sw*h <= sh*w {
		// Source is relatively taller: keep full width.
		ch = min(max((sw*h+w/2)/w, 1), sh)
	} else {
		cw = min(max((sh*w+h/2)/h, 1), sw)
	}

	x0 := r.Min.X + (sw-cw)/2
	y0 := r.Min.Y + (sh-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}
