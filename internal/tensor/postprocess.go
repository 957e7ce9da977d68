package tensor

import (
	"image"
	"math"
)

// Postprocess drops the batch dimension of a [1,H,W,3] tensor and converts
// it into an opaque 8-bit bitmap, clipping every channel to [0,255].
func Postprocess(t *Tensor) (*image.RGBA, error) {
	height, width, err := t.ImageDims()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for p := 0; p < width*height; p++ {
		img.Pix[p*4] = toByte(t.Data[p*3])
		img.Pix[p*4+1] = toByte(t.Data[p*3+1])
		img.Pix[p*4+2] = toByte(t.Data[p*3+2])
		img.Pix[p*4+3] = 0xff
	}
	return img, nil
}

// toByte scales v by 255, clips and truncates toward zero like an integer
// cast. NaN becomes 0.
func toByte(v float32) uint8 {
	scaled := float64(v) * 255
	switch {
	case math.IsNaN(scaled), scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	}
	return uint8(scaled)
}
