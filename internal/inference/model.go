// Package inference runs the pretrained style transfer network through the
// OpenCV DNN module.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"neural-stylizer/internal/logger"
	"neural-stylizer/internal/opencv/conversion"
	"neural-stylizer/internal/opencv/safe"
	"neural-stylizer/internal/tensor"

	"gocv.io/x/gocv"
)

const component = "Inference"

var (
	ErrModelClosed  = errors.New("model is closed")
	ErrInvalidModel = errors.New("model file could not be loaded")
)

// Options names the network's input and output layers and picks the
// compute backend.
type Options struct {
	ContentInput string
	StyleInput   string
	Output       string
	Backend      string
}

// Model wraps a loaded gocv.Net. A Net is not safe for concurrent use, so
// Stylize calls are serialized.
type Model struct {
	mu     sync.Mutex
	net    gocv.Net
	closed bool
	opts   Options
	logger logger.Logger
}

// Load reads the network at path. Any format ReadNet understands works;
// ONNX is expected.
func Load(path string, opts Options, log logger.Logger) (*Model, error) {
	if log == nil {
		log = logger.Nop()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	// ReadNet hands back a nil network when OpenCV throws, and calling any
	// method on it crashes, so the exception is checked first.
	gocv.ClearLastException()
	net := gocv.ReadNet(path, "")
	if err := gocv.LastExceptionError(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidModel, path, err)
	}
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("%w: %s: empty network", ErrInvalidModel, path)
	}

	switch opts.Backend {
	case "cuda":
		net.SetPreferableBackend(gocv.NetBackendCUDA)
		net.SetPreferableTarget(gocv.NetTargetCUDA)
	case "opencv":
		net.SetPreferableBackend(gocv.NetBackendOpenCV)
		net.SetPreferableTarget(gocv.NetTargetCPU)
	default:
		net.SetPreferableBackend(gocv.NetBackendDefault)
		net.SetPreferableTarget(gocv.NetTargetCPU)
	}

	log.Info(component, "network loaded", map[string]interface{}{
		"path":    path,
		"backend": opts.Backend,
		"inputs":  []string{opts.ContentInput, opts.StyleInput},
	})

	return &Model{net: net, opts: opts, logger: log}, nil
}

// Stylize runs one forward pass. The context is only checked before the
// pass starts; OpenCV offers no way to interrupt it.
func (m *Model) Stylize(ctx context.Context, content, style *tensor.Tensor) (*tensor.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentBlob, err := conversion.TensorToBlob(content, "content")
	if err != nil {
		return nil, err
	}
	defer contentBlob.Close()

	styleBlob, err := conversion.TensorToBlob(style, "style")
	if err != nil {
		return nil, err
	}
	defer styleBlob.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrModelClosed
	}

	start := time.Now()
	gocv.ClearLastException()
	m.net.SetInput(contentBlob.GetMat(), m.opts.ContentInput)
	m.net.SetInput(styleBlob.GetMat(), m.opts.StyleInput)

	raw := m.net.Forward(m.opts.Output)
	if cvErr := gocv.LastExceptionError(); cvErr != nil {
		raw.Close()
		return nil, fmt.Errorf("forward pass: %w", cvErr)
	}
	output, err := safe.Wrap(raw, "output")
	if err != nil {
		return nil, fmt.Errorf("forward pass produced no output: %w", err)
	}
	defer output.Close()

	result, err := conversion.BlobToTensor(output)
	if err != nil {
		return nil, fmt.Errorf("decode network output: %w", err)
	}

	m.logger.Debug(component, "forward pass completed", map[string]interface{}{
		"output_shape": result.Shape,
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return result, nil
}

// Shutdown releases the network.
func (m *Model) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.net.Close()
}
