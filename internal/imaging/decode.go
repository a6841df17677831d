// Package imaging decodes image files into a normalized pixel buffer and
// derives display buffers from it: contrast scaling, CLAHE-based
// enhancement, and a spectral magnitude view.
//
// Buffers are gocv Mats in 8-bit BGR (CV8UC3), the OpenCV convention.
// Transform functions never modify their input and always derive from the
// pristine decode, so repeated calls with the same parameters are
// idempotent.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
)

// DecodeError reports a failure to read or decode an image file. Decoding
// never panics past this boundary; callers get the error as a value and
// navigation continues.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode reads an image file and normalizes it to a 3-channel 8-bit BGR Mat.
// The registered Go decoders (jpeg, png, gif, bmp) are tried first; OpenCV's
// reader covers the rest (JPEG 2000). On failure the returned Mat is empty
// and the error is a *DecodeError.
func Decode(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), &DecodeError{Path: path, Err: err}
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err == nil {
		return ImageToMat(img), nil
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), &DecodeError{Path: path, Err: err}
	}
	return mat, nil
}
