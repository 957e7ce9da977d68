package tensor

import (
	"errors"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// InputSize is the side length both network inputs are resized to.
const InputSize = 512

// Preprocess turns a bitmap into a [1,512,512,3] tensor with RGB values
// scaled into [0,1]. Alpha is dropped after un-premultiplying.
func Preprocess(img image.Image) (*Tensor, error) {
	if img == nil {
		return nil, errors.New("preprocess: nil image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("preprocess: empty image")
	}

	if bounds.Dx() != InputSize || bounds.Dy() != InputSize {
		img = resize.Resize(InputSize, InputSize, img, resize.Bilinear)
		bounds = img.Bounds()
	}

	t, err := New(1, InputSize, InputSize, 3)
	if err != nil {
		return nil, err
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			t.Data[i] = float32(c.R) / 0xffff
			t.Data[i+1] = float32(c.G) / 0xffff
			t.Data[i+2] = float32(c.B) / 0xffff
			i += 3
		}
	}

	return t, nil
}
