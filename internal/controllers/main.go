package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"neural-stylizer/internal/display"
	"neural-stylizer/internal/logger"
	"neural-stylizer/internal/models"
	"neural-stylizer/internal/services"

	"fyne.io/fyne/v2"
)

const (
	DefaultSaveName = "stylized.png"

	msgNoContent = "Please select a content image first!"
	msgNoStyle   = "Please select a style image first!"
	msgNoResult  = "No stylized image to save. Process an image first!"
	msgSaved     = "Image saved successfully!"
)

// View is what the controller needs from the window.
type View interface {
	ShowPreview(slot models.Slot, img image.Image)
	ClearPreview(slot models.Slot)
	SetProcessingActive(active bool)
	UpdateStatus(status string)
	SetImageInfo(data *models.ImageData, slot models.Slot)
	ShowError(title string, err error)
	ShowWarning(title, message string)
	ShowInfo(title, message string)
	ShowOpenDialog(callback func(fyne.URIReadCloser, error))
	ShowSaveDialog(defaultName string, callback func(fyne.URIWriteCloser, error))
}

// Options tunes how the controller schedules work.
type Options struct {
	// Debounce is the quiet period after the last resize before previews
	// are redrawn.
	Debounce time.Duration
	// Dispatch runs a function on the UI goroutine. Defaults to fyne.Do.
	Dispatch func(func())
	// Background runs long work off the UI goroutine. Defaults to a new
	// goroutine.
	Background func(func())
}

// MainController owns the three image slots and turns button presses into
// loads, stylizations and saves.
type MainController struct {
	ctx context.Context

	// Services
	imageService *services.ImageService
	styleService *services.StyleService

	// Models/Repositories
	imageRepo *models.ImageRepository
	stateRepo *models.ProcessingStateRepository

	view       View
	logger     logger.Logger
	debouncer  *display.Debouncer
	dispatch   func(func())
	background func(func())
}

// NewMainController creates a new main controller
func NewMainController(
	ctx context.Context,
	imageService *services.ImageService,
	styleService *services.StyleService,
	imageRepo *models.ImageRepository,
	stateRepo *models.ProcessingStateRepository,
	log logger.Logger,
	opts Options,
) *MainController {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Dispatch == nil {
		opts.Dispatch = fyne.Do
	}
	if opts.Background == nil {
		opts.Background = func(f func()) { go f() }
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}

	mc := &MainController{
		ctx:          ctx,
		imageService: imageService,
		styleService: styleService,
		imageRepo:    imageRepo,
		stateRepo:    stateRepo,
		logger:       log,
		dispatch:     opts.Dispatch,
		background:   opts.Background,
	}
	mc.debouncer = display.NewDebouncer(opts.Debounce, opts.Dispatch, mc.RefreshPreviews)
	return mc
}

// viewBinder is implemented by views that forward button presses.
type viewBinder interface {
	SetLoadContentHandler(func())
	SetLoadStyleHandler(func())
	SetApplyStyleHandler(func())
	SetSaveResultHandler(func())
	SetResizeHandler(func())
}

// SetMainView associates the view with this controller and wires its
// buttons when it supports that.
func (mc *MainController) SetMainView(view View) {
	mc.view = view

	if binder, ok := view.(viewBinder); ok {
		binder.SetLoadContentHandler(mc.LoadContent)
		binder.SetLoadStyleHandler(mc.LoadStyle)
		binder.SetApplyStyleHandler(mc.ApplyStyle)
		binder.SetSaveResultHandler(mc.SaveResult)
		binder.SetResizeHandler(mc.OnResize)
	}
}

func (mc *MainController) LoadContent() {
	mc.loadInto(models.SlotContent)
}

func (mc *MainController) LoadStyle() {
	mc.loadInto(models.SlotStyle)
}

// loadInto asks for a file and replaces the slot with it. Cancelling the
// dialog does nothing; a failed decode keeps the previous image.
func (mc *MainController) loadInto(slot models.Slot) {
	mc.view.ShowOpenDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("Error", fmt.Errorf("failed to open file: %w", err))
			return
		}
		if reader == nil {
			return
		}

		mc.view.UpdateStatus("Loading image...")
		data, err := mc.imageService.LoadImage(mc.ctx, reader)
		if err != nil {
			mc.handleError("Error", fmt.Errorf("Failed to load image:\n%w", err))
			mc.view.UpdateStatus("Ready")
			return
		}

		mc.imageRepo.Set(slot, data)
		mc.view.ShowPreview(slot, data.Image)
		mc.view.SetImageInfo(data, slot)
		mc.view.UpdateStatus(fmt.Sprintf("%s loaded", slot.Title()))
	})
}

// ApplyStyle runs the network on the current content and style images in
// the background. Missing inputs produce a warning and nothing else.
func (mc *MainController) ApplyStyle() {
	content := mc.imageRepo.Get(models.SlotContent)
	if content == nil {
		mc.view.ShowWarning("Warning", msgNoContent)
		return
	}
	style := mc.imageRepo.Get(models.SlotStyle)
	if style == nil {
		mc.view.ShowWarning("Warning", msgNoStyle)
		return
	}

	if !mc.stateRepo.TryStart("Preprocessing") {
		mc.view.UpdateStatus("Style transfer already running")
		return
	}

	mc.view.SetProcessingActive(true)
	mc.view.UpdateStatus("Applying style...")

	mc.background(func() {
		result, err := mc.styleService.Apply(mc.ctx, content, style, func(stage string) {
			mc.stateRepo.UpdateStage(stage)
			mc.dispatch(func() {
				mc.view.UpdateStatus(stage + "...")
			})
		})
		elapsed := mc.stateRepo.Complete()

		mc.dispatch(func() {
			mc.view.SetProcessingActive(false)

			if err != nil {
				mc.handleError("Error", fmt.Errorf("Style transfer failed:\n%w", err))
				mc.view.UpdateStatus("Style transfer failed")
				return
			}

			mc.imageRepo.Set(models.SlotResult, result)
			mc.view.ShowPreview(models.SlotResult, result.Image)
			mc.view.SetImageInfo(result, models.SlotResult)
			mc.view.UpdateStatus(fmt.Sprintf("Style applied in %s", elapsed.Round(time.Millisecond)))
		})
	})
}

// SaveResult writes the stylized image to a user-chosen file.
func (mc *MainController) SaveResult() {
	result := mc.imageRepo.Get(models.SlotResult)
	if result == nil {
		mc.view.ShowError("Error", errors.New(msgNoResult))
		return
	}

	mc.view.ShowSaveDialog(DefaultSaveName, func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mc.handleError("Error", fmt.Errorf("failed to choose destination: %w", err))
			return
		}
		if writer == nil {
			return
		}

		if err := mc.imageService.SaveImage(mc.ctx, writer, result); err != nil {
			mc.handleError("Error", fmt.Errorf("Failed to save image: %w", err))
			return
		}
		mc.view.ShowInfo("Success", msgSaved)
		mc.view.UpdateStatus("Image saved")
	})
}

// OnResize schedules a preview refresh once resizing settles.
func (mc *MainController) OnResize() {
	mc.debouncer.Trigger()
}

// RefreshPreviews redraws every non-empty slot at the panes' current size
// and blanks the empty ones.
func (mc *MainController) RefreshPreviews() {
	if mc.view == nil {
		return
	}
	images := mc.imageRepo.Snapshot()
	for _, slot := range models.Slots {
		if data, ok := images[slot]; ok {
			mc.view.ShowPreview(slot, data.Image)
		} else {
			mc.view.ClearPreview(slot)
		}
	}
	mc.logger.Debug("MainController", "previews refreshed", map[string]interface{}{
		"images": len(images),
	})
}

// handleError logs err and shows it to the user.
func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{"title": title})
	mc.view.ShowError(title, err)
}

// Shutdown stops pending refreshes and drops the images.
func (mc *MainController) Shutdown() {
	mc.debouncer.Stop()
	mc.imageRepo.Shutdown()
}
