package imaging

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// dcMaskRadius is the radius in frequency bins around the spectrum center
// that gets zeroed before rescaling, so the DC term doesn't swamp the rest.
const dcMaskRadius = 20

// hannWindow returns the n-point Hann window.
func hannWindow(n int) []float64 {
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = 1
	}
	if n < 2 {
		return seq
	}
	return window.Hann(seq)
}

// applyHann2D multiplies the grid in place by the outer product of the
// per-axis 1D Hann windows, suppressing edge discontinuities before the DFT.
func applyHann2D(grid []float64, rows, cols int) {
	rowWin := hannWindow(cols)
	colWin := hannWindow(rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			grid[y*cols+x] *= colWin[y] * rowWin[x]
		}
	}
}

// fft2 computes the 2D discrete Fourier transform of a real grid by
// transforming rows then columns.
func fft2(grid []float64, rows, cols int) []complex128 {
	out := make([]complex128, rows*cols)
	for i, v := range grid {
		out[i] = complex(v, 0)
	}

	rowFFT := fourier.NewCmplxFFT(cols)
	rowBuf := make([]complex128, cols)
	for y := 0; y < rows; y++ {
		row := out[y*cols : (y+1)*cols]
		rowFFT.Coefficients(rowBuf, row)
		copy(row, rowBuf)
	}

	colFFT := fourier.NewCmplxFFT(rows)
	colIn := make([]complex128, rows)
	colOut := make([]complex128, rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			colIn[y] = out[y*cols+x]
		}
		colFFT.Coefficients(colOut, colIn)
		for y := 0; y < rows; y++ {
			out[y*cols+x] = colOut[y]
		}
	}
	return out
}

// fftShift moves the zero-frequency bin to the center of the grid in place.
func fftShift(spectrum []complex128, rows, cols int) {
	shifted := make([]complex128, len(spectrum))
	for y := 0; y < rows; y++ {
		ny := (y + rows/2) % rows
		for x := 0; x < cols; x++ {
			nx := (x + cols/2) % cols
			shifted[ny*cols+nx] = spectrum[y*cols+x]
		}
	}
	copy(spectrum, shifted)
}

// suppressCenter zeroes all bins within radius of the grid center.
func suppressCenter(spectrum []complex128, rows, cols, radius int) {
	cy, cx := rows/2, cols/2
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dy, dx := y-cy, x-cx
			if dy*dy+dx*dx <= radius*radius {
				spectrum[y*cols+x] = 0
			}
		}
	}
}

// scaleMagnitude maps spectrum magnitudes linearly onto [0,255] using the
// observed min and max. A flat spectrum maps to all zeros.
func scaleMagnitude(spectrum []complex128) []uint8 {
	if len(spectrum) == 0 {
		return nil
	}
	mags := make([]float64, len(spectrum))
	minMag, maxMag := cmplx.Abs(spectrum[0]), cmplx.Abs(spectrum[0])
	for i, c := range spectrum {
		m := cmplx.Abs(c)
		mags[i] = m
		if m < minMag {
			minMag = m
		}
		if m > maxMag {
			maxMag = m
		}
	}

	out := make([]uint8, len(mags))
	span := maxMag - minMag
	if span == 0 {
		return out
	}
	for i, m := range mags {
		out[i] = uint8((m - minMag) / span * 255)
	}
	return out
}
