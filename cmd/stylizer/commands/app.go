package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"neural-stylizer/internal/config"
	"neural-stylizer/internal/controllers"
	"neural-stylizer/internal/inference"
	"neural-stylizer/internal/logger"
	"neural-stylizer/internal/modelhub"
	"neural-stylizer/internal/models"
	"neural-stylizer/internal/services"
	"neural-stylizer/internal/shutdown"
	"neural-stylizer/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Neural Stylizer"
	AppID      = "io.github.neural-stylizer"
	AppVersion = "1.0.0"
)

// Application ties the window, the model and the MVC parts together.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  *logger.ZerologAdapter

	controller *controllers.MainController
	view       *views.MainView
	model      *inference.Model

	shutdown *shutdown.Manager
}

func run(cfg *config.Config) error {
	appLogger := logger.NewApplicationLogger(logger.ParseLevel(cfg.Log.Level), logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	application, err := NewApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("Application", err, map[string]interface{}{"stage": "startup"})
		appLogger.Shutdown()
		return err
	}
	application.Run()
	return nil
}

// NewApplication loads the model and builds the window. A model that cannot
// be fetched or loaded is fatal.
func NewApplication(cfg *config.Config, appLogger *logger.ZerologAdapter) (*Application, error) {
	shutdownManager := shutdown.NewManager(appLogger)
	shutdownManager.Register("logger", appLogger)
	ctx := shutdownManager.Context()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"log_level":  cfg.Log.Level,
		"backend":    cfg.Model.Backend,
	})

	model, err := loadModel(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}
	shutdownManager.Register("model", model)

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.UI.Width, cfg.UI.Height))
	window.CenterOnScreen()

	imageRepo := models.NewImageRepository()
	stateRepo := models.NewProcessingStateRepository()

	imageService := services.NewImageService(cfg.Save.JPEGQuality, appLogger)
	styleService := services.NewStyleService(model, appLogger)

	mainController := controllers.NewMainController(
		ctx,
		imageService, styleService,
		imageRepo, stateRepo,
		appLogger,
		controllers.Options{Debounce: cfg.UI.Debounce},
	)
	mainView := views.NewMainView(window, services.OpenExtensions, services.SaveExtensions)
	mainController.SetMainView(mainView)
	shutdownManager.Register("controller", mainController)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		controller: mainController,
		view:       mainView,
		model:      model,
		shutdown:   shutdownManager,
	}
	application.setupWindowEvents()

	return application, nil
}

// loadModel reads the network from --model-file or from the download cache.
// A cached file OpenCV cannot parse is evicted so the next start fetches it
// again.
func loadModel(ctx context.Context, cfg *config.Config, log logger.Logger) (*inference.Model, error) {
	opts := inference.Options{
		ContentInput: cfg.Model.ContentInput,
		StyleInput:   cfg.Model.StyleInput,
		Output:       cfg.Model.Output,
		Backend:      cfg.Model.Backend,
	}

	if cfg.Model.File != "" {
		log.Info("Application", "using local model", map[string]interface{}{"path": cfg.Model.File})
		model, err := inference.Load(cfg.Model.File, opts, log)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		return model, nil
	}

	fetcher := modelhub.NewFetcher(cfg.ModelCacheDir(), log)
	path, err := fetcher.Ensure(ctx, cfg.Model.URL, cfg.Model.Refresh)
	if err != nil {
		return nil, fmt.Errorf("fetch model: %w", err)
	}

	model, err := inference.Load(path, opts, log)
	if errors.Is(err, inference.ErrInvalidModel) {
		if evictErr := fetcher.Evict(cfg.Model.URL); evictErr != nil {
			log.Error("Application", evictErr, nil)
		}
		return nil, fmt.Errorf("load model: %w (the cached copy was removed; run again or pass --refresh-model)", err)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return model, nil
}

// Run shows the window and blocks until the UI loop ends.
func (a *Application) Run() {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.view.Show()
	a.fyneApp.Run()

	a.shutdown.Shutdown()
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		a.view.ShowConfirm("Exit Application", "Are you sure you want to exit?", func(confirmed bool) {
			if confirmed {
				a.window.Close()
			}
		})
	})

	a.window.SetOnClosed(func() {
		a.logger.Info("Application", "window closed", nil)
	})
}
