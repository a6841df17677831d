package imaging

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	claheClipLimit = 2.0
	claheTileSize  = 8
	unsharpSigma   = 2.0
)

// AdjustContrast scales contrast around the image's mean gray level. value
// is the slider position in [0,200]: 100 is identity, 0 collapses every
// pixel to the mean gray, 200 doubles the distance from it. Values below 0
// clamp to 0; pixel values saturate at the 8-bit range. The input is not
// modified and a new Mat is returned.
func AdjustContrast(pristine gocv.Mat, value float64) gocv.Mat {
	if value < 0 {
		value = 0
	}
	factor := value / 100

	gray := gocv.NewMat()
	gocv.CvtColor(pristine, &gray, gocv.ColorBGRToGray)
	pivot := gray.Mean().Val1
	gray.Close()

	// out = factor*px + (1-factor)*pivot, saturating.
	dst := gocv.NewMat()
	pristine.ConvertToWithParams(&dst, gocv.MatTypeCV8UC3, float32(factor), float32((1-factor)*pivot))
	return dst
}

// Enhance applies contrast-limited adaptive histogram equalization to the
// luminance channel (8x8 tiles, clip limit 2.0) followed by an unsharp mask
// (Gaussian blur sigma 2.0, 1.5*enhanced - 0.5*blurred). The input is not
// modified.
func Enhance(pristine gocv.Mat) gocv.Mat {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(pristine, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileSize, claheTileSize))
	equalized := gocv.NewMat()
	clahe.Apply(channels[0], &equalized)
	clahe.Close()
	channels[0].Close()
	channels[0] = equalized

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(channels, &merged)
	for _, ch := range channels {
		ch.Close()
	}

	enhanced := gocv.NewMat()
	defer enhanced.Close()
	gocv.CvtColor(merged, &enhanced, gocv.ColorLabToBGR)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(enhanced, &blurred, image.Pt(0, 0), unsharpSigma, unsharpSigma, gocv.BorderDefault)

	sharpened := gocv.NewMat()
	gocv.AddWeighted(enhanced, 1.5, blurred, -0.5, 0, &sharpened)
	return sharpened
}

// SpectralView renders the magnitude spectrum of the enhanced grayscale
// image as a single-channel Mat: Hann-windowed 2D DFT, zero frequency
// shifted to the center, bins within 20px of the center zeroed to suppress
// the DC term, magnitudes rescaled linearly to the 8-bit range. A diagnostic
// view for spotting frequency artifacts, not a labeling input.
func SpectralView(pristine gocv.Mat) gocv.Mat {
	enhanced := Enhance(pristine)
	defer enhanced.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(enhanced, &gray, gocv.ColorBGRToGray)

	rows, cols := gray.Rows(), gray.Cols()
	grid := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			grid[y*cols+x] = float64(gray.GetUCharAt(y, x))
		}
	}

	applyHann2D(grid, rows, cols)
	spectrum := fft2(grid, rows, cols)
	fftShift(spectrum, rows, cols)
	suppressCenter(spectrum, rows, cols, dcMaskRadius)
	pixels := scaleMagnitude(spectrum)

	out := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.SetUCharAt(y, x, pixels[y*cols+x])
		}
	}
	return out
}
