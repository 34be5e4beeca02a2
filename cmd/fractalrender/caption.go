package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/escape"
)

// captionMargin is the distance of the caption from the image edges.
const captionMargin = 4

var printer = message.NewPrinter(language.English)

// captionText describes a view in one line.
func captionText(f fractal.Focus) string {
	return fmt.Sprintf("center %.10g%+.10gi  radius %.4g  max iter %d",
		f.Center.X, f.Center.Y, f.Radius, escape.MaxIterations(f.Radius))
}

// drawCaption writes text into the bottom-left corner of img, white on a
// dark band so it stays readable over any part of the set.
func drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	b := img.Bounds()
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()
	width := d.MeasureString(text).Ceil()

	band := image.Rect(b.Min.X, b.Max.Y-height-2*captionMargin, b.Min.X+width+2*captionMargin, b.Max.Y).Intersect(b)
	draw.Draw(img, band, image.NewUniform(color.RGBA{A: 0xc0}), image.Point{}, draw.Over)

	d.Dot = fixed.P(b.Min.X+captionMargin, b.Max.Y-captionMargin-m.Descent.Ceil())
	d.DrawString(text)
}

// summary reports a finished render with thousands separators.
func summary(path string, size fractal.Size, f fractal.Focus, elapsed time.Duration) string {
	return printer.Sprintf("Saved %s (%s, %d pixels, up to %d iterations each) in %v",
		path, size, size.Pixels(), escape.MaxIterations(f.Radius), elapsed.Round(time.Millisecond))
}
