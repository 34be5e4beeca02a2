package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/cache"
	"github.com/gogpu/fractal/internal/viewport"
)

const (
	// zoomOutFactor is the radius multiplier of a right click.
	zoomOutFactor = 2

	// maxHistory is how many earlier views Backspace can return to.
	maxHistory = 64

	// frameCacheBytes bounds the memory of finished frames kept for
	// revisited views.
	frameCacheBytes = 256 << 20
)

// renderer is the part of *fractal.Renderer the viewer drives.
type renderer interface {
	Resize(size fractal.Size, focus fractal.Focus)
	Update(dst *image.RGBA) fractal.Frame
}

// viewer is the ebiten game: it feeds window geometry and mouse zooms to
// the renderer and shows whatever stage it has produced.
type viewer struct {
	r renderer

	size    fractal.Size
	focus   fractal.Focus
	history []fractal.Focus
	frame   fractal.Frame

	// Finished frames of earlier views. shown is what Draw displays: the
	// renderer's frame, or a cached one while a revisited view recomputes.
	frames *cache.Frames
	key    cache.Key
	stored bool
	shown  *image.RGBA

	tex *ebiten.Image

	// Drag selection in window pixels.
	dragging     bool
	dragX, dragY int
	curX, curY   int
}

func newViewer(r renderer) *viewer {
	return &viewer{
		r:      r,
		focus:  fractal.Home(),
		frames: cache.NewFrames(frameCacheBytes),
	}
}

// Layout uses the window's own pixel size so the renderer works at screen
// resolution.
func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.size = fractal.Sz(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	v.handleInput()

	v.r.Resize(v.size, v.focus)
	v.frame = v.r.Update(v.frame.Image)
	v.pickShown()
	return nil
}

// pickShown stores finished frames and chooses the image to display.
func (v *viewer) pickShown() {
	if k := cache.KeyOf(v.size, v.focus); k != v.key {
		v.key = k
		v.stored = false
	}

	if v.frame.Progress >= 1 {
		if !v.stored {
			v.stored = v.frames.Put(v.key, v.frame.Image)
		}
		v.shown = v.frame.Image
		return
	}
	if img, ok := v.frames.Get(v.key); ok {
		v.shown = img
		return
	}
	v.shown = v.frame.Image
}

// navigate switches to focus f, remembering the current view for back.
func (v *viewer) navigate(f fractal.Focus) {
	if f == v.focus {
		return
	}
	v.history = append(v.history, v.focus)
	if len(v.history) > maxHistory {
		v.history = v.history[1:]
	}
	v.focus = f
}

// back returns to the previous view, if any.
func (v *viewer) back() {
	if n := len(v.history); n > 0 {
		v.focus = v.history[n-1]
		v.history = v.history[:n-1]
	}
}

func (v *viewer) handleInput() {
	x, y := ebiten.CursorPosition()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.navigate(fractal.Home())
		v.dragging = false
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		v.back()
		v.dragging = false
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		v.navigate(v.focus.ZoomOut(zoomOutFactor, fractal.HomeRadius))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.dragging = true
		v.dragX, v.dragY = x, y
	}

	if !v.dragging {
		return
	}
	v.curX, v.curY = x, y
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		v.dragging = false
		v.zoomTo(v.dragX, v.dragY, x, y)
	}
}

// zoomTo focuses the view on the window rectangle between two corners.
// Rectangles too small to be deliberate are ignored.
func (v *viewer) zoomTo(x0, y0, x1, y1 int) {
	if f, ok := viewport.Select(v.focus, v.size, x0, y0, x1, y1); ok {
		v.navigate(f)
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if img := v.shown; img != nil && !img.Rect.Empty() {
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if v.tex == nil || v.tex.Bounds().Dx() != w || v.tex.Bounds().Dy() != h {
			if v.tex != nil {
				v.tex.Deallocate()
			}
			v.tex = ebiten.NewImage(w, h)
		}
		v.tex.WritePixels(img.Pix)

		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
		screen.DrawImage(v.tex, op)
	}

	if v.dragging {
		x0, y0 := float32(min(v.dragX, v.curX)), float32(min(v.dragY, v.curY))
		x1, y1 := float32(max(v.dragX, v.curX)), float32(max(v.dragY, v.curY))
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, color.White, false)
	}

	ebitenutil.DebugPrint(screen, v.status())
}

// status is the overlay text: progress and the current view.
func (v *viewer) status() string {
	return fmt.Sprintf("%3.0f%%  %dx%d\ncenter %.12g%+.12gi\nradius %.4g",
		v.frame.Progress*100, v.frame.Width, v.frame.Height,
		v.focus.Center.X, v.focus.Center.Y, v.focus.Radius)
}
