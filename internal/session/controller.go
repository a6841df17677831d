// Package session orchestrates the image catalog, transform pipeline, and
// label store in response to user intents. The presentation layer calls in
// here and renders whatever comes back; no Mat escapes this package.
package session

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"image-labeler/internal/catalog"
	"image-labeler/internal/imaging"
	"image-labeler/internal/labels"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// EventType identifies controller events the UI can listen for.
type EventType int

const (
	EventCatalogLoaded EventType = iota
	EventImageShown
	EventLabelSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Controller owns the catalog cursor, the label store, and exactly two pixel
// buffers per navigation step: the pristine decode and the currently
// displayed derived buffer. Transforms always derive from the pristine copy,
// never from a previous transform's output.
type Controller struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	store   *labels.Store
	metrics *labels.Metrics
	set     labels.Set

	pristine gocv.Mat
	derived  gocv.Mat
	hasImage bool
	contrast float64

	listeners map[EventType][]EventListener
}

// New creates a controller over an opened label store. metrics may be nil
// when no side table exists.
func New(store *labels.Store, metrics *labels.Metrics, set labels.Set) *Controller {
	if metrics == nil {
		metrics = labels.EmptyMetrics()
	}
	return &Controller{
		catalog:   catalog.New(),
		store:     store,
		metrics:   metrics,
		set:       set,
		pristine:  gocv.NewMat(),
		derived:   gocv.NewMat(),
		contrast:  100,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (c *Controller) On(event EventType, listener EventListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[event] = append(c.listeners[event], listener)
}

// emit calls listeners without holding the lock; the controller is driven
// from the single interaction goroutine.
func (c *Controller) emit(event EventType, data interface{}) {
	c.mu.Lock()
	ls := c.listeners[event]
	c.mu.Unlock()
	for _, l := range ls {
		l(data)
	}
}

// OpenDirectory scans root for images, skipping ahead past entries that are
// already labeled, and returns the number of images found. A count of zero
// is a valid "nothing to do" result, not an error.
func (c *Controller) OpenDirectory(root string) (int, error) {
	c.mu.Lock()
	count, err := c.catalog.Scan(root, c.store.LabeledPaths())
	c.clearBuffersLocked()
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}

	c.emit(EventCatalogLoaded, root)
	return count, nil
}

// OpenReviewSet loads the catalog with previously labeled images whose
// stored label equals target, for re-review.
func (c *Controller) OpenReviewSet(target string) (int, error) {
	if !c.set.Contains(target) {
		return 0, fmt.Errorf("unknown label code %q", target)
	}

	c.mu.Lock()
	count := c.catalog.ScanLabeled(c.store.All(), target)
	c.clearBuffersLocked()
	c.mu.Unlock()

	c.emit(EventCatalogLoaded, "")
	return count, nil
}

// Next advances to the next image (wrapping past the end), decodes it, and
// returns the display buffer. A decode failure still advances the cursor and
// leaves the current buffers unchanged; navigation is never blocked by a bad
// file.
func (c *Controller) Next() (image.Image, error) {
	return c.navigate(c.catalog.Advance)
}

// Previous moves to the previous image, wrapping before the start.
func (c *Controller) Previous() (image.Image, error) {
	return c.navigate(c.catalog.Retreat)
}

func (c *Controller) navigate(move func() (string, error)) (image.Image, error) {
	c.mu.Lock()
	path, err := move()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	mat, err := imaging.Decode(path)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.pristine.Close()
	c.derived.Close()
	c.pristine = mat
	c.derived = mat.Clone()
	c.hasImage = true
	c.contrast = 100
	display := imaging.MatToImage(c.derived)
	c.mu.Unlock()

	// Record the default label the first time an image is shown. autoSave
	// never clobbers an existing record, and a write failure must not block
	// navigation; it resolves on the next successful save.
	if err := c.store.Save(path, c.store.Get(path), true); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("auto-save of default label failed")
	}

	c.emit(EventImageShown, path)
	return display, nil
}

// SetContrast derives a new display buffer from the pristine decode with the
// given contrast slider value in [0,200]. Returns nil when no image is
// loaded.
func (c *Controller) SetContrast(value float64) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasImage {
		return nil
	}
	c.derived.Close()
	c.derived = imaging.AdjustContrast(c.pristine, value)
	c.contrast = value
	return imaging.MatToImage(c.derived)
}

// ShowOriginal restores the pristine decode as the display buffer.
func (c *Controller) ShowOriginal() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasImage {
		return nil
	}
	c.derived.Close()
	c.derived = c.pristine.Clone()
	return imaging.MatToImage(c.derived)
}

// ShowEnhanced derives the CLAHE+unsharp enhancement of the pristine decode.
func (c *Controller) ShowEnhanced() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasImage {
		return nil
	}
	c.derived.Close()
	c.derived = imaging.Enhance(c.pristine)
	return imaging.MatToImage(c.derived)
}

// ShowSpectral derives the windowed spectral-magnitude view of the pristine
// decode.
func (c *Controller) ShowSpectral() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasImage {
		return nil
	}
	c.derived.Close()
	c.derived = imaging.SpectralView(c.pristine)
	return imaging.MatToImage(c.derived)
}

// SetLabel records a label code for the current image.
func (c *Controller) SetLabel(code string) error {
	if !c.set.Contains(code) {
		return fmt.Errorf("unknown label code %q", code)
	}

	c.mu.Lock()
	path, _, ok := c.catalog.Current()
	c.mu.Unlock()
	if !ok {
		return errors.New("no image selected")
	}

	if err := c.store.Save(path, code, false); err != nil {
		return err
	}
	c.emit(EventLabelSaved, path)
	return nil
}

// CurrentLabel returns the stored label code for the current image, or the
// default code when nothing is selected or recorded.
func (c *Controller) CurrentLabel() string {
	c.mu.Lock()
	path, _, ok := c.catalog.Current()
	c.mu.Unlock()
	if !ok {
		return labels.DefaultCode
	}
	return c.store.Get(path)
}

// CurrentInfo returns the current image path and its parent directory.
func (c *Controller) CurrentInfo() (path, parentDir string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Current()
}

// CurrentMetrics returns the capture metrics recorded for the current image.
func (c *Controller) CurrentMetrics() labels.ImageMetrics {
	c.mu.Lock()
	path, _, ok := c.catalog.Current()
	c.mu.Unlock()
	if !ok {
		return c.metrics.For("")
	}
	return c.metrics.For(filepath.Base(path))
}

// LabelSet returns the label enumeration in force.
func (c *Controller) LabelSet() labels.Set {
	return c.set
}

// Progress returns the 1-based position of the cursor and the catalog size.
func (c *Controller) Progress() (position, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Progress()
}

// LabelingProgress returns how many images have a recorded label and the
// catalog size.
func (c *Controller) LabelingProgress() (labeled, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Count(), c.catalog.Len()
}

// Close releases the pixel buffers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearBuffersLocked()
}

func (c *Controller) clearBuffersLocked() {
	c.pristine.Close()
	c.derived.Close()
	c.pristine = gocv.NewMat()
	c.derived = gocv.NewMat()
	c.hasImage = false
	c.contrast = 100
}
