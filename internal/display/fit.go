// Package display scales bitmaps for the preview panes and coalesces
// bursts of resize events.
package display

import (
	"image"

	"fyne.io/fyne/v2"
	"github.com/nfnt/resize"
)

// FrameSize is the side of the square a bitmap is drawn into for a pane of
// the given size.
func FrameSize(size fyne.Size) int {
	return int(min(size.Width, size.Height))
}

// FitSquare stretches img to a frame×frame square with Lanczos resampling.
// The aspect ratio is not preserved. It returns nil when the pane has not
// been laid out yet.
func FitSquare(img image.Image, size fyne.Size) image.Image {
	frame := FrameSize(size)
	if img == nil || frame <= 0 {
		return nil
	}
	return resize.Resize(uint(frame), uint(frame), img, resize.Lanczos3)
}
