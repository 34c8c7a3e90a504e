package filterbank

import (
	"math"

	"github.com/dmorell/vision-figures/internal/gray"
)

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// gaussianKernel1D builds a normalized 1-D Gaussian kernel for the
// given sigma. The radius is ceil(3*sigma), which captures 99.7% of
// the distribution's mass.
func gaussianKernel1D(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// Gaussian applies a Gaussian blur at the given sigma. The kernel is
// separable, so the blur runs as a horizontal pass followed by a
// vertical pass. Border pixels use clamped (replicated) edge values.
func Gaussian(x *gray.Grid, sigma float64) *gray.Grid {
	if sigma <= 0 {
		return x.Clone()
	}

	kernel := gaussianKernel1D(sigma)
	radius := len(kernel) / 2

	horiz := gray.New(x.Width, x.Height)
	for y := 0; y < x.Height; y++ {
		for px := 0; px < x.Width; px++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := clamp(px+k, 0, x.Width-1)
				sum += x.At(sx, y) * kernel[k+radius]
			}
			horiz.Set(px, y, sum)
		}
	}

	out := gray.New(x.Width, x.Height)
	for y := 0; y < x.Height; y++ {
		for px := 0; px < x.Width; px++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sy := clamp(y+k, 0, x.Height-1)
				sum += horiz.At(px, sy) * kernel[k+radius]
			}
			out.Set(px, y, sum)
		}
	}
	return out
}

// convolve3x3 applies a 3x3 kernel with replicated borders.
func convolve3x3(x *gray.Grid, kernel [3][3]float64) *gray.Grid {
	out := gray.New(x.Width, x.Height)
	for y := 0; y < x.Height; y++ {
		for px := 0; px < x.Width; px++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sy := clamp(y+ky, 0, x.Height-1)
					sx := clamp(px+kx, 0, x.Width-1)
					sum += x.At(sx, sy) * kernel[ky+1][kx+1]
				}
			}
			out.Set(px, y, sum)
		}
	}
	return out
}
