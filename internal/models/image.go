package models

import (
	"fmt"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// Slot identifies one of the three images the application holds.
type Slot int

const (
	SlotContent Slot = iota
	SlotStyle
	SlotResult
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotContent, SlotStyle, SlotResult}

func (s Slot) String() string {
	switch s {
	case SlotContent:
		return "content"
	case SlotStyle:
		return "style"
	case SlotResult:
		return "result"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Title is the label shown above the slot's preview pane.
func (s Slot) Title() string {
	switch s {
	case SlotContent:
		return "Content Image"
	case SlotStyle:
		return "Style Image"
	case SlotResult:
		return "Stylized Image"
	default:
		return s.String()
	}
}

// ImageData is a decoded bitmap plus where it came from.
type ImageData struct {
	Image       image.Image
	Width       int
	Height      int
	Format      string
	OriginalURI fyne.URI
	LoadTime    time.Time
	ProcessTime time.Duration
}

// NewImageData wraps img, filling in its dimensions.
func NewImageData(img image.Image, format string, uri fyne.URI) *ImageData {
	bounds := img.Bounds()
	return &ImageData{
		Image:       img,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      format,
		OriginalURI: uri,
		LoadTime:    time.Now(),
	}
}

// ImageRepository holds the content, style and result slots. Each slot is
// either empty or replaced wholesale; nothing is versioned.
type ImageRepository struct {
	mu     sync.RWMutex
	images map[Slot]*ImageData
}

func NewImageRepository() *ImageRepository {
	return &ImageRepository{
		images: make(map[Slot]*ImageData, len(Slots)),
	}
}

// Set replaces the slot's image. A nil img empties it.
func (r *ImageRepository) Set(slot Slot, img *ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img == nil {
		delete(r.images, slot)
		return
	}
	r.images[slot] = img
}

func (r *ImageRepository) Get(slot Slot) *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.images[slot]
}

func (r *ImageRepository) Has(slot Slot) bool {
	return r.Get(slot) != nil
}

// Snapshot returns the non-empty slots.
func (r *ImageRepository) Snapshot() map[Slot]*ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Slot]*ImageData, len(r.images))
	for slot, img := range r.images {
		out[slot] = img
	}
	return out
}

// ClearAll empties every slot.
func (r *ImageRepository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = make(map[Slot]*ImageData, len(Slots))
}

// Shutdown releases all resources
func (r *ImageRepository) Shutdown() {
	r.ClearAll()
}
