// Package tensor converts between decoded bitmaps and the NHWC float32
// tensors the stylization network consumes and produces.
package tensor

import (
	"errors"
	"fmt"
)

// ErrUnexpectedShape is returned when a tensor is not a single RGB image
// in [1,H,W,3] layout.
var ErrUnexpectedShape = errors.New("unexpected tensor shape")

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// New allocates a zeroed tensor with the given dimensions.
func New(shape ...int) (*Tensor, error) {
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("invalid dimension %d in shape %v", d, shape)
		}
		size *= d
	}
	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float32, size),
	}, nil
}

// FromData wraps data without copying after checking it matches shape.
func FromData(data []float32, shape ...int) (*Tensor, error) {
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("invalid dimension %d in shape %v", d, shape)
		}
		size *= d
	}
	if len(data) != size {
		return nil, fmt.Errorf("data length %d does not match shape %v", len(data), shape)
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: data}, nil
}

// ImageDims validates the [1,H,W,3] layout and returns H and W.
func (t *Tensor) ImageDims() (height, width int, err error) {
	if t == nil || len(t.Shape) != 4 || t.Shape[0] != 1 || t.Shape[3] != 3 {
		var shape []int
		if t != nil {
			shape = t.Shape
		}
		return 0, 0, fmt.Errorf("%w: got %v, want [1 H W 3]", ErrUnexpectedShape, shape)
	}
	if len(t.Data) != t.Shape[1]*t.Shape[2]*3 {
		return 0, 0, fmt.Errorf("%w: %d values for shape %v", ErrUnexpectedShape, len(t.Data), t.Shape)
	}
	return t.Shape[1], t.Shape[2], nil
}
