// Package image provides the RGBA8 frame helpers used by the renderer:
// allocation, stage-to-stage preview resampling and PNG output.
package image

import "image"

// Ensure returns img if it is a tightly packed w×h RGBA image anchored at
// the origin, and a new transparent one otherwise. The contents of a reused
// image are left untouched.
func Ensure(img *image.RGBA, w, h int) *image.RGBA {
	if img != nil && img.Rect == image.Rect(0, 0, w, h) && img.Stride == w*4 && len(img.Pix) == w*h*4 {
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear makes every pixel of img transparent.
func Clear(img *image.RGBA) {
	if img != nil {
		clear(img.Pix)
	}
}

// Opaque reports whether every pixel of img has full alpha.
// An empty image is trivially opaque.
func Opaque(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return false
			}
		}
	}
	return true
}

// Transparent counts the pixels of img whose alpha is zero.
func Transparent(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] == 0 {
				n++
			}
		}
	}
	return n
}
