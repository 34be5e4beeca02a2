// Command fractalrender renders a view of the Mandelbrot set to a PNG file.
//
// It drives the progressive renderer the same way a display loop would,
// polling for updates until the final stage is complete, then writes the
// result.
//
// Usage:
//
//	fractalrender -size 1920x1080 -center -0.743643,0.131825 -radius 0.0001 -output zoom.png
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/fractal"
	imgutil "github.com/gogpu/fractal/internal/image"
	"github.com/gogpu/fractal/internal/viewport"
)

// pollInterval matches a 60 Hz display refresh.
const pollInterval = 16 * time.Millisecond

func main() {
	var (
		size    = flag.String("size", "800x600", "image size as WIDTHxHEIGHT")
		center  = flag.String("center", "-0.5,0", "view center as REAL,IMAG")
		radius  = flag.Float64("radius", fractal.HomeRadius, "view radius")
		workers = flag.Int("workers", 0, "number of workers (0 = one per CPU, 1 = no goroutines)")
		stages  = flag.Int("stages", 0, "number of resolution stages (0 = default)")
		output  = flag.String("output", "fractal.png", "output file")
		caption = flag.Bool("caption", false, "stamp the view parameters onto the image")
		timeout = flag.Duration("timeout", 5*time.Minute, "give up after this long")
		verbose = flag.Bool("v", false, "log every stage")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	full, err := viewport.ParseSize(*size)
	if err != nil {
		log.Fatalf("Invalid -size: %v", err)
	}
	if full.Empty() {
		log.Fatalf("Invalid -size: %q has no pixels", *size)
	}
	c, err := viewport.ParsePoint(*center)
	if err != nil {
		log.Fatalf("Invalid -center: %v", err)
	}
	if !(*radius > 0) {
		log.Fatalf("Invalid -radius: %v", *radius)
	}
	focus := fractal.Focus{Center: c, Radius: *radius}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	start := time.Now()
	img, err := render(ctx, full, focus, fractal.WithWorkers(*workers), fractal.WithStages(*stages))
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	elapsed := time.Since(start)

	if *caption {
		drawCaption(img, captionText(focus))
	}

	if err := imgutil.SavePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Print(summary(*output, full, focus, elapsed))
}

// render runs a renderer on the given view until it is complete or ctx is
// done.
func render(ctx context.Context, full fractal.Size, focus fractal.Focus, opts ...fractal.Option) (*image.RGBA, error) {
	r := fractal.New(opts...)
	defer r.Stop()

	r.Resize(full, focus)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var img *image.RGBA
	stage := -1
	for {
		f := r.Update(img)
		img = f.Image
		if r.Stage() != stage {
			stage = r.Stage()
			fractal.Logger().Info("stage",
				"stage", stage+1,
				"of", r.Stages(),
				"size", fmt.Sprintf("%dx%d", f.Width, f.Height),
				"progress", fmt.Sprintf("%.1f%%", f.Progress*100))
		}
		if f.Progress >= 1 {
			return img, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("at %.1f%%: %w", f.Progress*100, ctx.Err())
		case <-ticker.C:
		}
	}
}
