package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neural-stylizer/internal/logger"
	"neural-stylizer/internal/models"
	"neural-stylizer/internal/tensor"
)

var (
	ErrNoContent = errors.New("no content image selected")
	ErrNoStyle   = errors.New("no style image selected")
	ErrNoResult  = errors.New("no stylized image to save")
)

// Stylizer is the pretrained network: it blends the style tensor into the
// content tensor and returns a [1,H,W,3] image tensor.
type Stylizer interface {
	Stylize(ctx context.Context, content, style *tensor.Tensor) (*tensor.Tensor, error)
}

// StageFunc reports progress through the pipeline.
type StageFunc func(stage string)

// StyleService runs preprocess, inference and postprocess.
type StyleService struct {
	stylizer Stylizer
	logger   logger.Logger
}

func NewStyleService(stylizer Stylizer, log logger.Logger) *StyleService {
	if log == nil {
		log = logger.Nop()
	}
	return &StyleService{stylizer: stylizer, logger: log}
}

// Apply stylizes content with style. Neither input is modified.
func (ss *StyleService) Apply(ctx context.Context, content, style *models.ImageData, onStage StageFunc) (*models.ImageData, error) {
	if content == nil || content.Image == nil {
		return nil, ErrNoContent
	}
	if style == nil || style.Image == nil {
		return nil, ErrNoStyle
	}
	if onStage == nil {
		onStage = func(string) {}
	}

	start := time.Now()

	onStage("Preprocessing")
	contentTensor, err := tensor.Preprocess(content.Image)
	if err != nil {
		return nil, fmt.Errorf("content image: %w", err)
	}
	styleTensor, err := tensor.Preprocess(style.Image)
	if err != nil {
		return nil, fmt.Errorf("style image: %w", err)
	}

	onStage("Running style transfer")
	inferStart := time.Now()
	output, err := ss.stylizer.Stylize(ctx, contentTensor, styleTensor)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	inferDuration := time.Since(inferStart)

	onStage("Postprocessing")
	bitmap, err := tensor.Postprocess(output)
	if err != nil {
		return nil, fmt.Errorf("inference output: %w", err)
	}

	result := models.NewImageData(bitmap, "png", nil)
	result.ProcessTime = time.Since(start)

	ss.logger.Info("StyleService", "style transfer completed", map[string]interface{}{
		"output_width":  result.Width,
		"output_height": result.Height,
		"inference_ms":  inferDuration.Milliseconds(),
		"total_ms":      result.ProcessTime.Milliseconds(),
	})
	return result, nil
}
