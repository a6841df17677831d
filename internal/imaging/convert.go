package imaging

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ImageToMat converts a Go image.Image to a BGR CV8UC3 Mat.
func ImageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}

// MatToImage converts a BGR or single-channel Mat to an image.Image for
// display. An empty Mat yields nil.
func MatToImage(mat gocv.Mat) image.Image {
	if mat.Empty() {
		return nil
	}
	h, w := mat.Rows(), mat.Cols()

	if mat.Channels() == 1 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetGray(x, y, color.Gray{Y: mat.GetUCharAt(y, x)})
			}
		}
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		rowOffset := y * img.Stride
		for x := 0; x < w; x++ {
			pixOffset := rowOffset + x*4
			img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*3+2)
			img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*3+1)
			img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*3+0)
			img.Pix[pixOffset+3] = 255
		}
	}
	return img
}
