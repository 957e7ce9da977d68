package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the four action buttons
type Toolbar struct {
	container     *fyne.Container
	contentButton *widget.Button
	styleButton   *widget.Button
	applyButton   *widget.Button
	saveButton    *widget.Button

	// Event handlers
	contentHandler func()
	styleHandler   func()
	applyHandler   func()
	saveHandler    func()
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.contentButton = widget.NewButtonWithIcon("Content Image", theme.FolderOpenIcon(), nil)
	t.styleButton = widget.NewButtonWithIcon("Style Image", theme.ColorPaletteIcon(), nil)

	t.applyButton = widget.NewButtonWithIcon("Apply Style", theme.MediaPlayIcon(), nil)
	t.applyButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButtonWithIcon("Save Image", theme.DocumentSaveIcon(), nil)
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.contentButton,
		t.styleButton,
		widget.NewSeparator(),
		t.applyButton,
		widget.NewSeparator(),
		t.saveButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.contentButton.OnTapped = func() {
		if t.contentHandler != nil {
			t.contentHandler()
		}
	}

	t.styleButton.OnTapped = func() {
		if t.styleHandler != nil {
			t.styleHandler()
		}
	}

	t.applyButton.OnTapped = func() {
		if t.applyHandler != nil {
			t.applyHandler()
		}
	}

	t.saveButton.OnTapped = func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	}
}

func (t *Toolbar) SetContentHandler(handler func()) {
	t.contentHandler = handler
}

func (t *Toolbar) SetStyleHandler(handler func()) {
	t.styleHandler = handler
}

func (t *Toolbar) SetApplyHandler(handler func()) {
	t.applyHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

// SetProcessingActive disables Apply Style and Save while a stylization
// is running. Loading new inputs stays possible.
func (t *Toolbar) SetProcessingActive(active bool) {
	if active {
		t.applyButton.Disable()
		t.saveButton.Disable()
	} else {
		t.applyButton.Enable()
		t.saveButton.Enable()
	}
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
