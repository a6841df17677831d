// Package imageview provides the scaled image display area.
package imageview

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// View shows the current display buffer scaled to fit its area, preserving
// aspect ratio.
type View struct {
	img *canvas.Image
	box *fyne.Container
}

// New creates an empty image view.
func New() *View {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(640, 480))

	return &View{
		img: img,
		box: container.NewStack(img),
	}
}

// Container returns the view's root canvas object.
func (v *View) Container() fyne.CanvasObject {
	return v.box
}

// SetImage replaces the displayed image.
func (v *View) SetImage(img image.Image) {
	v.img.Image = img
	v.img.Refresh()
}

// Clear empties the display.
func (v *View) Clear() {
	v.img.Image = nil
	v.img.Refresh()
}
