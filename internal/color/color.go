// Package color provides the pixel type and the escape-time color scheme.
package color

// ColorU8 represents a color with uint8 components in [0,255].
// A pixel with A == 0 has not been computed yet.
type ColorU8 struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Black       = ColorU8{A: 255}
	Transparent = ColorU8{}
)

// Opaque reports whether the color is fully opaque.
func (c ColorU8) Opaque() bool {
	return c.A == 255
}

// SwapRB returns the color with its red and blue channels exchanged.
func (c ColorU8) SwapRB() ColorU8 {
	return ColorU8{R: c.B, G: c.G, B: c.R, A: c.A}
}

// Put writes the color into the first 4 bytes of dst in RGBA order.
func (c ColorU8) Put(dst []byte) {
	_ = dst[3]
	dst[0] = c.R
	dst[1] = c.G
	dst[2] = c.B
	dst[3] = c.A
}

// At reads the color stored at the first 4 bytes of src in RGBA order.
func At(src []byte) ColorU8 {
	_ = src[3]
	return ColorU8{R: src[0], G: src[1], B: src[2], A: src[3]}
}
