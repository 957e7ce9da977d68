package components

import (
	"image"
	"image/color"

	"neural-stylizer/internal/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var paneBackground = color.NRGBA{R: 0x2c, G: 0x2c, B: 0x2c, A: 0xff}

// PreviewPane is a titled area that shows one image stretched to the
// largest square that fits.
type PreviewPane struct {
	container *fyne.Container
	area      *fyne.Container
	image     *canvas.Image
	layout    *resizeLayout
	rendered  image.Image
}

// NewPreviewPane creates a pane; onResize is called whenever the image area
// changes size.
func NewPreviewPane(title string, onResize func(fyne.Size)) *PreviewPane {
	p := &PreviewPane{}

	p.image = canvas.NewImageFromImage(nil)
	p.image.FillMode = canvas.ImageFillContain
	p.image.ScaleMode = canvas.ImageScaleSmooth

	p.layout = &resizeLayout{onResize: onResize}
	p.area = container.New(p.layout, canvas.NewRectangle(paneBackground), p.image)

	p.container = container.NewBorder(
		widget.NewRichTextFromMarkdown("**"+title+"**"),
		nil, nil, nil,
		p.area,
	)
	return p
}

// Show renders img scaled to the pane's current size, replacing what was
// shown before. Before the pane has been laid out this does nothing.
func (p *PreviewPane) Show(img image.Image) bool {
	fitted := display.FitSquare(img, p.area.Size())
	if fitted == nil {
		return false
	}

	p.rendered = fitted
	p.image.Image = fitted
	p.image.Refresh()
	return true
}

// Clear removes the rendered image.
func (p *PreviewPane) Clear() {
	p.rendered = nil
	p.image.Image = nil
	p.image.Refresh()
}

// Rendered returns the bitmap currently on screen, if any.
func (p *PreviewPane) Rendered() image.Image {
	return p.rendered
}

// AreaSize returns the size of the image area.
func (p *PreviewPane) AreaSize() fyne.Size {
	return p.area.Size()
}

// GetContainer returns the pane container
func (p *PreviewPane) GetContainer() *fyne.Container {
	return p.container
}

// resizeLayout stacks its objects and reports size changes.
type resizeLayout struct {
	last     fyne.Size
	onResize func(fyne.Size)
}

func (l *resizeLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}

	if size != l.last {
		l.last = size
		if l.onResize != nil {
			l.onResize(size)
		}
	}
}

// MinSize ignores the children so a large bitmap never forces the window
// to grow.
func (l *resizeLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(64, 64)
}
