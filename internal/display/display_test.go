package display

import (
	"image"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
)

func TestFitSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))

	tests := []struct {
		name string
		size fyne.Size
		want int
	}{
		{"wide pane", fyne.NewSize(300, 200), 200},
		{"tall pane", fyne.NewSize(150, 400), 150},
		{"fractional", fyne.NewSize(99.7, 120), 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FitSquare(src, tt.size)
			if out == nil {
				t.Fatal("FitSquare returned nil")
			}
			b := out.Bounds()
			if b.Dx() != tt.want || b.Dy() != tt.want {
				t.Errorf("bounds = %v, want %dx%d", b, tt.want, tt.want)
			}
		})
	}
}

func TestFitSquareSkipsUnlaidPane(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))

	for _, size := range []fyne.Size{{}, fyne.NewSize(100, 0), fyne.NewSize(0.5, 80), fyne.NewSize(-4, 10)} {
		if out := FitSquare(src, size); out != nil {
			t.Errorf("FitSquare(%v) = %v, want nil", size, out.Bounds())
		}
	}
	if out := FitSquare(nil, fyne.NewSize(50, 50)); out != nil {
		t.Error("nil image should yield nil")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(200*time.Millisecond, nil, func() { fired.Add(1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(time.Millisecond)
	}
	if !d.Pending() {
		t.Fatal("expected a pending callback")
	}

	time.Sleep(600 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
	if d.Pending() {
		t.Error("debouncer should be idle after firing")
	}

	d.Trigger()
	time.Sleep(600 * time.Millisecond)
	if got := fired.Load(); got != 2 {
		t.Fatalf("second burst: fired %d times, want 2", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, nil, func() { fired.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Fatalf("fired %d times after Stop, want 0", got)
	}
}

func TestDebouncerUsesDispatch(t *testing.T) {
	var dispatched, fired atomic.Int32
	done := make(chan struct{})
	d := NewDebouncer(10*time.Millisecond,
		func(f func()) { dispatched.Add(1); f() },
		func() { fired.Add(1); close(done) },
	)

	d.Trigger()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
	if dispatched.Load() != 1 || fired.Load() != 1 {
		t.Errorf("dispatched=%d fired=%d", dispatched.Load(), fired.Load())
	}
}
