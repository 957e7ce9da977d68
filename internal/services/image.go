package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"

	"neural-stylizer/internal/logger"
	"neural-stylizer/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// OpenExtensions are the file types offered by the open dialog.
var OpenExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// SaveExtensions are the formats a result can be written in.
var SaveExtensions = []string{".png", ".jpg", ".jpeg"}

// ImageService handles image loading and saving
type ImageService struct {
	jpegQuality int
	logger      logger.Logger
}

// NewImageService creates a new image service
func NewImageService(jpegQuality int, log logger.Logger) *ImageService {
	if log == nil {
		log = logger.Nop()
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 95
	}
	return &ImageService{
		jpegQuality: jpegQuality,
		logger:      log,
	}
}

// LoadImage decodes the image behind a dialog reader and closes it.
func (is *ImageService) LoadImage(ctx context.Context, reader fyne.URIReadCloser) (*models.ImageData, error) {
	defer reader.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	uri := reader.URI()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	imageData, err := is.Decode(bytes.NewReader(data), uri)
	if err != nil {
		return nil, err
	}
	imageData.ProcessTime = time.Since(start)

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"uri":     uriString(uri),
		"format":  imageData.Format,
		"width":   imageData.Width,
		"height":  imageData.Height,
		"bytes":   len(data),
		"load_ms": imageData.ProcessTime.Milliseconds(),
	})
	return imageData, nil
}

// Decode decodes any registered format from r.
func (is *ImageService) Decode(r io.Reader, uri fyne.URI) (*models.ImageData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to decode image: empty bounds")
	}
	return models.NewImageData(img, format, uri), nil
}

// SaveImage encodes imageData into writer, picking the format from the
// destination extension, and closes the writer.
func (is *ImageService) SaveImage(ctx context.Context, writer fyne.URIWriteCloser, imageData *models.ImageData) (err error) {
	defer func() {
		if closeErr := writer.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close output: %w", closeErr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if imageData == nil || imageData.Image == nil {
		return ErrNoResult
	}

	writer, err = is.withDefaultExtension(writer)
	if err != nil {
		return err
	}

	format := FormatForExtension(writer.URI().Extension())
	if err := is.Encode(writer, imageData.Image, format); err != nil {
		return err
	}

	is.logger.Info("ImageService", "image saved", map[string]interface{}{
		"uri":    uriString(writer.URI()),
		"format": format,
	})
	return nil
}

// withDefaultExtension replaces a destination typed without an extension
// by the same name plus ".png". The empty file the dialog created is removed.
func (is *ImageService) withDefaultExtension(writer fyne.URIWriteCloser) (fyne.URIWriteCloser, error) {
	uri := writer.URI()
	if uri.Extension() != "" {
		return writer, nil
	}

	target, err := storage.ParseURI(uri.String() + ".png")
	if err != nil {
		return writer, fmt.Errorf("failed to name output: %w", err)
	}
	replacement, err := storage.Writer(target)
	if err != nil {
		return writer, fmt.Errorf("failed to create %s: %w", uriString(target), err)
	}

	if err := writer.Close(); err != nil {
		is.logger.Warning("ImageService", "closing placeholder output failed", map[string]interface{}{"error": err.Error()})
	}
	if err := storage.Delete(uri); err != nil {
		is.logger.Warning("ImageService", "removing placeholder output failed", map[string]interface{}{
			"uri":   uriString(uri),
			"error": err.Error(),
		})
	}
	return replacement, nil
}

// Encode writes img as JPEG or PNG.
func (is *ImageService) Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: is.jpegQuality})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// FormatForExtension maps a file extension to an output format. Anything
// other than JPEG is written as PNG.
func FormatForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "jpeg"
	default:
		return "png"
	}
}

func uriString(uri fyne.URI) string {
	if uri == nil {
		return ""
	}
	return uri.String()
}
