// Command fractalview is an interactive Mandelbrot set viewer.
//
// Drag with the left mouse button to zoom into a rectangle, click the right
// button to zoom out, press Backspace to go back to the previous view, R to
// return to the full set and Escape to quit. Finished views are kept in
// memory, so going back shows them at once.
package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/fractal"
)

func main() {
	var (
		width   = flag.Int("width", 800, "initial window width")
		height  = flag.Int("height", 600, "initial window height")
		workers = flag.Int("workers", 0, "number of workers (0 = one per CPU, 1 = no goroutines)")
		verbose = flag.Bool("v", false, "log renderer activity")
	)
	flag.Parse()

	if *verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	r := fractal.New(fractal.WithWorkers(*workers))
	defer r.Stop()

	ebiten.SetWindowTitle("Fractal")
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(newViewer(r)); err != nil && !errors.Is(err, ebiten.Termination) {
		r.Stop()
		log.Fatalf("Viewer failed: %v", err)
	}
}
