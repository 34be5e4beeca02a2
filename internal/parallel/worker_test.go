package parallel

import (
	"sync"
	"testing"
	"time"

	"github.com/gogpu/fractal/internal/color"
	"github.com/gogpu/fractal/internal/escape"
	"github.com/gogpu/fractal/internal/viewport"
)

// solid is a scheme that paints every pixel the same opaque color.
func solid(c color.ColorU8) color.Scheme {
	return func(escape.Result) color.ColorU8 { return c }
}

func testConfig() Config {
	return Config{Workers: 1, Stages: 2, BatchSize: 30}
}

// stepUntil steps w until it reports a status other than StatusComputed.
func stepUntil(t *testing.T, w *Worker) (Status, int) {
	t.Helper()
	computed := 0
	for range 10000 {
		s := w.Step()
		if s != StatusComputed {
			return s, computed
		}
		computed++
	}
	t.Fatal("worker never went idle")
	return 0, 0
}

// =============================================================================
// Step Tests
// =============================================================================

func TestWorker_StepBeforeReset(t *testing.T) {
	w := NewWorker(0, testConfig())
	if got := w.Step(); got != StatusComplete {
		t.Errorf("Step() = %v, want %v", got, StatusComplete)
	}
	if got := w.Progress(); got != 1 {
		t.Errorf("Progress() = %v, want 1 for an empty view", got)
	}
}

func TestWorker_StepComputesAllBatches(t *testing.T) {
	w := NewWorker(0, testConfig())
	w.Reset(viewport.Sz(20, 20), viewport.Home()) // stage 0 is 10x10

	status, computed := stepUntil(t, w)
	if status != StatusComplete {
		t.Fatalf("Step() = %v, want %v", status, StatusComplete)
	}
	if computed != 4 {
		t.Errorf("computed %d batches, want 4 (ceil(100/30))", computed)
	}
	if !w.StageComplete(0) {
		t.Error("StageComplete(0) = false after all batches")
	}
	if w.StageComplete(1) {
		t.Error("StageComplete(1) = true while on stage 0")
	}

	dst := make([]byte, 10*10*BytesPerPixel)
	w.CopyTo(dst, viewport.Sz(20, 20), 0)
	for i := 0; i < len(dst); i += BytesPerPixel {
		if dst[i+3] != 255 {
			t.Fatalf("pixel %d not computed: alpha = %d", i/BytesPerPixel, dst[i+3])
		}
	}

	// Compare with a direct evaluation of the kernel.
	size := viewport.Sz(10, 10)
	f := viewport.Home()
	maxIter := escape.MaxIterations(f.Radius)
	for i := range size.Pixels() {
		c := viewport.ToWorld(f, size, i%10, i/10)
		want := color.Smooth(escape.Mandelbrot(c, escape.DefaultRadiusSqr, maxIter))
		if got := color.At(dst[i*BytesPerPixel:]); got != want {
			t.Fatalf("pixel %d = %v, want %v", i, got, want)
		}
	}
}

func TestWorker_StepDiscardsStaleBatch(t *testing.T) {
	cfg := testConfig()
	var w *Worker
	var once sync.Once
	cfg.Scheme = func(escape.Result) color.ColorU8 {
		// Replace the view while the first batch is being computed.
		once.Do(func() {
			w.Reset(viewport.Sz(40, 40), viewport.Focus{Radius: 1})
		})
		return color.Black
	}
	w = NewWorker(0, cfg)
	w.Reset(viewport.Sz(20, 20), viewport.Home())

	if got := w.Step(); got != StatusDiscarded {
		t.Fatalf("Step() = %v, want %v", got, StatusDiscarded)
	}

	// Nothing of the old view may leak into the new one.
	dst := make([]byte, 20*20*BytesPerPixel)
	w.CopyTo(dst, viewport.Sz(40, 40), 0)
	for i := 3; i < len(dst); i += BytesPerPixel {
		if dst[i] != 0 {
			t.Fatalf("pixel %d written after a discarded batch", i/BytesPerPixel)
		}
	}

	status, computed := stepUntil(t, w)
	if status != StatusComplete || computed != 14 {
		t.Errorf("after discard: %v with %d batches, want Complete with 14", status, computed)
	}
}

func TestWorker_SetStageClearsState(t *testing.T) {
	w := NewWorker(0, testConfig())
	w.Reset(viewport.Sz(20, 20), viewport.Home())
	stepUntil(t, w)

	w.SetStage(1)
	if got := w.Stage(); got != 1 {
		t.Fatalf("Stage() = %d, want 1", got)
	}
	if w.StageComplete(1) {
		t.Error("StageComplete(1) = true right after SetStage")
	}

	dst := make([]byte, 20*20*BytesPerPixel)
	w.CopyTo(dst, viewport.Sz(20, 20), 1)
	for i := 3; i < len(dst); i += BytesPerPixel {
		if dst[i] != 0 {
			t.Fatal("new stage has pixels before any Step")
		}
	}

	// Out of range stages are ignored.
	w.SetStage(2)
	w.SetStage(-1)
	if got := w.Stage(); got != 1 {
		t.Errorf("Stage() = %d after invalid SetStage, want 1", got)
	}
}

func TestWorker_CopyToMismatchIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.Scheme = solid(color.ColorU8{R: 1, G: 2, B: 3, A: 255})
	w := NewWorker(0, cfg)
	w.Reset(viewport.Sz(20, 20), viewport.Home())
	stepUntil(t, w)

	tests := []struct {
		name  string
		dst   []byte
		full  viewport.Size
		stage int
	}{
		{"short buffer", make([]byte, 10), viewport.Sz(20, 20), 0},
		{"long buffer", make([]byte, 20*20*BytesPerPixel), viewport.Sz(20, 20), 0},
		{"other stage", make([]byte, 20*20*BytesPerPixel), viewport.Sz(20, 20), 1},
		{"other view", make([]byte, 10*10*BytesPerPixel), viewport.Sz(22, 20), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.CopyTo(tt.dst, tt.full, tt.stage)
			for _, b := range tt.dst {
				if b != 0 {
					t.Fatal("CopyTo() wrote into a mismatched buffer")
				}
			}
		})
	}
}

// =============================================================================
// Progress Tests
// =============================================================================

func TestWorker_ProgressMonotonic(t *testing.T) {
	w := NewWorker(0, Config{Workers: 1, Stages: 3, BatchSize: 17})
	w.Reset(viewport.Sz(33, 21), viewport.Home())

	prev := w.Progress()
	if prev != 0 {
		t.Errorf("initial Progress() = %v, want 0", prev)
	}
	for stage := range 3 {
		if stage > 0 {
			w.SetStage(stage)
		}
		for w.Step() == StatusComputed {
			cur := w.Progress()
			if cur < prev {
				t.Fatalf("Progress() decreased: %v -> %v", prev, cur)
			}
			prev = cur
		}
	}
	if got := w.Progress(); got != 1 {
		t.Errorf("final Progress() = %v, want 1", got)
	}
}

func TestWorker_ProgressSharedAcrossWorkers(t *testing.T) {
	cfg := Config{Workers: 3, Stages: 1, BatchSize: 10}
	w := NewWorker(2, cfg)
	w.Reset(viewport.Sz(10, 10), viewport.Home()) // 10 batches; worker 2 owns 2, 5, 8

	if got := w.Progress(); got != 0 {
		t.Errorf("Progress() = %v, want 0", got)
	}
	w.Step()
	if got, want := w.Progress(), 1.0/3; got != want {
		t.Errorf("Progress() = %v, want %v", got, want)
	}
}

// =============================================================================
// Run / Quit Tests
// =============================================================================

func TestWorker_RunQuits(t *testing.T) {
	w := NewWorker(0, Config{Workers: 1, Idle: time.Hour})
	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	w.Reset(viewport.Sz(64, 64), viewport.Home())
	w.Quit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Quit()")
	}
	if got := w.Step(); got != StatusQuit {
		t.Errorf("Step() after Quit = %v, want %v", got, StatusQuit)
	}

	// Quit survives a later Reset.
	w.Reset(viewport.Sz(8, 8), viewport.Home())
	if got := w.Step(); got != StatusQuit {
		t.Errorf("Step() after Reset = %v, want %v", got, StatusQuit)
	}
}

func TestWorker_RunWakesOnReset(t *testing.T) {
	// With an hour-long idle interval only the wake signal can get the
	// worker going again.
	w := NewWorker(0, Config{Workers: 1, Stages: 1, Idle: time.Hour})
	go w.Run()
	defer w.Quit()

	w.Reset(viewport.Sz(16, 16), viewport.Home())
	waitFor(t, func() bool { return w.StageComplete(0) })

	w.Reset(viewport.Sz(32, 32), viewport.Home())
	waitFor(t, func() bool { return w.StageComplete(0) && w.Progress() == 1 })
}

// waitFor polls cond until it holds or a deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusComputed, "Computed"},
		{StatusDiscarded, "Discarded"},
		{StatusComplete, "Complete"},
		{StatusQuit, "Quit"},
		{Status(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
