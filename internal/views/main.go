package views

import (
	"image"

	"neural-stylizer/internal/models"
	"neural-stylizer/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// MainView is the application window: a toolbar, three preview panes and a
// status bar. Every method must be called on the UI goroutine.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	panes         map[models.Slot]*components.PreviewPane
	statusBar     *components.StatusBar

	openExtensions []string
	saveExtensions []string

	// Event handlers - connected to controller
	loadContentHandler func()
	loadStyleHandler   func()
	applyStyleHandler  func()
	saveResultHandler  func()
	resizeHandler      func()
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window, openExtensions, saveExtensions []string) *MainView {
	view := &MainView{
		window:         window,
		panes:          make(map[models.Slot]*components.PreviewPane, len(models.Slots)),
		openExtensions: openExtensions,
		saveExtensions: saveExtensions,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar()
	mv.statusBar = components.NewStatusBar()

	for _, slot := range models.Slots {
		mv.panes[slot] = components.NewPreviewPane(slot.Title(), func(fyne.Size) {
			if mv.resizeHandler != nil {
				mv.resizeHandler()
			}
		})
	}
}

func (mv *MainView) buildLayout() {
	previews := container.NewGridWithColumns(len(models.Slots))
	for _, slot := range models.Slots {
		previews.Add(mv.panes[slot].GetContainer())
	}

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		mv.statusBar.GetContainer(),
		nil,
		nil,
		container.NewPadded(previews),
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetContentHandler(func() {
		if mv.loadContentHandler != nil {
			mv.loadContentHandler()
		}
	})
	mv.toolbar.SetStyleHandler(func() {
		if mv.loadStyleHandler != nil {
			mv.loadStyleHandler()
		}
	})
	mv.toolbar.SetApplyHandler(func() {
		if mv.applyStyleHandler != nil {
			mv.applyStyleHandler()
		}
	})
	mv.toolbar.SetSaveHandler(func() {
		if mv.saveResultHandler != nil {
			mv.saveResultHandler()
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetLoadContentHandler(handler func()) {
	mv.loadContentHandler = handler
}

func (mv *MainView) SetLoadStyleHandler(handler func()) {
	mv.loadStyleHandler = handler
}

func (mv *MainView) SetApplyStyleHandler(handler func()) {
	mv.applyStyleHandler = handler
}

func (mv *MainView) SetSaveResultHandler(handler func()) {
	mv.saveResultHandler = handler
}

// SetResizeHandler is called every time a preview pane changes size.
func (mv *MainView) SetResizeHandler(handler func()) {
	mv.resizeHandler = handler
}

// UI update methods - called by controller

// ShowPreview renders img into the slot's pane.
func (mv *MainView) ShowPreview(slot models.Slot, img image.Image) {
	if pane, ok := mv.panes[slot]; ok {
		pane.Show(img)
	}
}

func (mv *MainView) ClearPreview(slot models.Slot) {
	if pane, ok := mv.panes[slot]; ok {
		pane.Clear()
	}
}

func (mv *MainView) SetProcessingActive(active bool) {
	mv.toolbar.SetProcessingActive(active)
	mv.statusBar.SetBusy(active)
}

func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) SetImageInfo(data *models.ImageData, slot models.Slot) {
	if data == nil {
		return
	}
	mv.statusBar.SetImageInfo(slot.Title(), data.Width, data.Height, data.Format)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	d := dialog.NewError(err, mv.window)
	d.Show()
}

// ShowWarning displays a warning; fyne has no dedicated warning dialog.
func (mv *MainView) ShowWarning(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// ShowOpenDialog asks for an image file to load.
func (mv *MainView) ShowOpenDialog(callback func(fyne.URIReadCloser, error)) {
	d := dialog.NewFileOpen(callback, mv.window)
	if len(mv.openExtensions) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(mv.openExtensions))
	}
	d.Show()
}

// ShowSaveDialog asks where to write the result, proposing defaultName.
func (mv *MainView) ShowSaveDialog(defaultName string, callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, mv.window)
	d.SetFileName(defaultName)
	if len(mv.saveExtensions) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(mv.saveExtensions))
	}
	d.Show()
}

// Pane exposes a preview pane, mainly for tests.
func (mv *MainView) Pane(slot models.Slot) *components.PreviewPane {
	return mv.panes[slot]
}

// Show displays the view
func (mv *MainView) Show() {
	mv.window.Show()
}
