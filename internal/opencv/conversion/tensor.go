package conversion

import (
	"encoding/binary"
	"fmt"
	"math"

	"neural-stylizer/internal/opencv/safe"
	"neural-stylizer/internal/tensor"

	"gocv.io/x/gocv"
)

// TensorToBlob packs t into an n-dimensional CV_32F Mat with the same shape,
// ready for Net.SetInput.
func TensorToBlob(t *tensor.Tensor, tag string) (*safe.Mat, error) {
	if t == nil || len(t.Data) == 0 {
		return nil, fmt.Errorf("%s: empty tensor", tag)
	}

	data := make([]byte, len(t.Data)*4)
	for i, v := range t.Data {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}

	m, err := gocv.NewMatWithSizesFromBytes(t.Shape, gocv.MatTypeCV32F, data)
	if err != nil {
		return nil, fmt.Errorf("%s: blob creation failed: %w", tag, err)
	}
	return safe.Wrap(m, tag)
}

// BlobToTensor copies a CV_32F network output into an NHWC image tensor.
// NCHW outputs ([1,3,H,W]) are transposed.
func BlobToTensor(blob *safe.Mat) (*tensor.Tensor, error) {
	if blob.Type() != gocv.MatTypeCV32F {
		return nil, fmt.Errorf("%w: output type %v, want CV_32F", tensor.ErrUnexpectedShape, blob.Type())
	}

	dims := blob.Dims()
	raw, err := blob.Bytes()
	if err != nil {
		return nil, err
	}

	values := make([]float32, len(raw)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	if len(dims) == 4 && dims[0] == 1 && dims[1] == 3 && dims[3] != 3 {
		return planarToInterleaved(values, dims[2], dims[3])
	}

	out, err := tensor.FromData(values, dims...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tensor.ErrUnexpectedShape, err)
	}
	if _, _, err := out.ImageDims(); err != nil {
		return nil, err
	}
	return out, nil
}

func planarToInterleaved(values []float32, height, width int) (*tensor.Tensor, error) {
	plane := height * width
	if len(values) != plane*3 {
		return nil, fmt.Errorf("%w: %d values for [1 3 %d %d]", tensor.ErrUnexpectedShape, len(values), height, width)
	}

	out, err := tensor.New(1, height, width, 3)
	if err != nil {
		return nil, err
	}
	for p := 0; p < plane; p++ {
		out.Data[p*3] = values[p]
		out.Data[p*3+1] = values[plane+p]
		out.Data[p*3+2] = values[2*plane+p]
	}
	return out, nil
}
