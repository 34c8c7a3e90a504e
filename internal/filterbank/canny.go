package filterbank

import (
	"math"

	"github.com/dmorell/vision-figures/internal/gray"
)

// Hysteresis thresholds as fractions of the [0, 1] gradient range.
const (
	cannyLowThreshold  = 0.10
	cannyHighThreshold = 0.20
)

// Canny computes a binary edge mask (values 0 or 1) for a normalized
// grid.
//
// The stages are the standard Canny sequence:
//
//  1. Gaussian blur at the given sigma to reduce noise
//  2. Sobel gradients: magnitude = sqrt(Gx^2 + Gy^2),
//     direction = atan2(Gy, Gx)
//  3. Non-maximum suppression: keep only local maxima along the
//     gradient direction, thinning edges to one pixel
//  4. Hysteresis: pixels above high are strong edges; pixels between
//     low and high survive only when adjacent to a strong edge
func Canny(x *gray.Grid, sigma, low, high float64) *gray.Grid {
	width, height := x.Width, x.Height

	blurred := Gaussian(x, sigma)

	gx := convolve3x3(blurred, sobelX)
	gy := convolve3x3(blurred, sobelY)

	magnitude := gray.New(width, height)
	direction := gray.New(width, height)
	for i := range magnitude.Pix {
		magnitude.Pix[i] = math.Sqrt(gx.Pix[i]*gx.Pix[i] + gy.Pix[i]*gy.Pix[i])
		direction.Pix[i] = math.Atan2(gy.Pix[i], gx.Pix[i])
	}

	// Non-maximum suppression. Border pixels stay zero.
	suppressed := gray.New(width, height)
	for y := 1; y < height-1; y++ {
		for px := 1; px < width-1; px++ {
			angle := direction.At(px, y)
			mag := magnitude.At(px, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude.At(px-1, y)
				n2 = magnitude.At(px+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = magnitude.At(px+1, y-1)
				n2 = magnitude.At(px-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude.At(px, y-1)
				n2 = magnitude.At(px, y+1)
			default:
				n1 = magnitude.At(px-1, y-1)
				n2 = magnitude.At(px+1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				suppressed.Set(px, y, mag)
			}
		}
	}

	// Double threshold with hysteresis: weak edges survive only next
	// to a strong edge.
	out := gray.New(width, height)
	for y := 0; y < height; y++ {
		for px := 0; px < width; px++ {
			val := suppressed.At(px, y)
			switch {
			case val >= high:
				out.Set(px, y, 1)
			case val >= low:
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						sy := clamp(y+ky, 0, height-1)
						sx := clamp(px+kx, 0, width-1)
						if suppressed.At(sx, sy) >= high {
							out.Set(px, y, 1)
						}
					}
				}
			}
		}
	}
	return out
}
