// Package filterbank applies the fixed battery of classical filters
// that the study compares: spatial smoothing and edge detection,
// grayscale morphology with a disk structuring element, and two fixed
// two-stage pipelines.
//
// Every function is a pure function of the input grid and hardcoded
// constants. Banks return a name -> result map plus an ordered key
// slice; the order reflects presentation order only.
package filterbank

import (
	"math"

	"github.com/anthonynsimon/bild/effect"

	"github.com/dmorell/vision-figures/internal/gray"
)

// SpatialKeys is the fixed key set of the spatial filter bank, in
// presentation order.
var SpatialKeys = []string{
	"gaussian_s1",
	"gaussian_s2",
	"median_r2",
	"median_r4",
	"unsharp_r1_a1",
	"sobel",
	"laplace",
	"canny_s12",
}

// EdgeKeys names the spatial bank members that are edge maps rather
// than intensity filters. Metric ranking skips them.
var EdgeKeys = []string{"sobel", "laplace", "canny_s12"}

// Spatial applies the spatial filter bank to a normalized grid.
//
// The filter set and parameters are fixed:
//   - Gaussian smoothing at sigma 1.0 and 2.0
//   - median smoothing at disk radii 2 and 4
//   - unsharp masking with sigma 1.0 and amount 1.0
//   - Sobel gradient magnitude, rescaled to [0, 1]
//   - absolute 3x3 Laplacian, rescaled to [0, 1]
//   - Canny edge mask at sigma 1.2
func Spatial(x *gray.Grid) map[string]*gray.Grid {
	return map[string]*gray.Grid{
		"gaussian_s1":   Gaussian(x, 1.0),
		"gaussian_s2":   Gaussian(x, 2.0),
		"median_r2":     Median(x, 2),
		"median_r4":     Median(x, 4),
		"unsharp_r1_a1": Unsharp(x, 1.0, 1.0),
		"sobel":         SobelMagnitude(x),
		"laplace":       Laplace(x),
		"canny_s12":     Canny(x, 1.2, cannyLowThreshold, cannyHighThreshold),
	}
}

// Median applies median smoothing with the given disk radius. The
// heavy lifting is bild's median filter, which works on a square
// window of side 2*radius+1; the grid round-trips through 8-bit
// grayscale, which is invisible at figure scale.
func Median(x *gray.Grid, radius int) *gray.Grid {
	if radius <= 0 {
		return x.Clone()
	}
	filtered := effect.Median(x.ToImage(), float64(2*radius+1))
	return gray.FromImage(filtered)
}

// Unsharp sharpens by adding the scaled high-frequency residual back
// to the input: clip(x + (x - gaussian(x, sigma)) * amount, 0, 1).
func Unsharp(x *gray.Grid, sigma, amount float64) *gray.Grid {
	blurred := Gaussian(x, sigma)
	out := gray.New(x.Width, x.Height)
	for i := range x.Pix {
		out.Pix[i] = x.Pix[i] + (x.Pix[i]-blurred.Pix[i])*amount
	}
	return gray.Clip(out)
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelMagnitude computes sqrt(Gx^2 + Gy^2) with the Sobel operators
// and rescales the result to [0, 1].
func SobelMagnitude(x *gray.Grid) *gray.Grid {
	gx := convolve3x3(x, sobelX)
	gy := convolve3x3(x, sobelY)
	out := gray.New(x.Width, x.Height)
	for i := range out.Pix {
		out.Pix[i] = math.Sqrt(gx.Pix[i]*gx.Pix[i] + gy.Pix[i]*gy.Pix[i])
	}
	return gray.Rescale(out)
}

var laplaceKernel = [3][3]float64{
	{0, 1, 0},
	{1, -4, 1},
	{0, 1, 0},
}

// Laplace computes the absolute response of the 3x3 Laplacian,
// rescaled to [0, 1].
func Laplace(x *gray.Grid) *gray.Grid {
	lap := convolve3x3(x, laplaceKernel)
	out := gray.New(x.Width, x.Height)
	for i := range out.Pix {
		out.Pix[i] = math.Abs(lap.Pix[i])
	}
	return gray.Rescale(out)
}
