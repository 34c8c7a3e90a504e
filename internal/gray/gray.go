// Package gray implements the normalized grayscale image that every
// filter in this repository operates on: a single-channel float64 grid
// with values in [0, 1], bounded so its longer side does not exceed a
// fixed limit.
//
// # Coordinate System
//
// Pixels are 0-based and row-major: (0,0) is the top-left corner, X
// increases rightward, Y increases downward.
//
// # Normalization
//
// Loading an image normalizes it deterministically: decode, grayscale
// conversion, Lanczos resize when the longer side exceeds the bound,
// division by 255 and a min-max rescale to the full [0, 1] range.
package gray

import (
	"image"
	"image/color"
	"math"
)

// Grid is a single-channel float64 image. Pix is row-major with
// len(Pix) == Width*Height. Filters treat a Grid as immutable input and
// allocate fresh output grids.
type Grid struct {
	Width  int
	Height int
	Pix    []float64
}

// New allocates a zero-valued grid of the given size.
func New(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the value at (x, y). No bounds checking is performed.
func (g *Grid) At(x, y int) float64 {
	return g.Pix[y*g.Width+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (g *Grid) Set(x, y int, v float64) {
	g.Pix[y*g.Width+x] = v
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := New(g.Width, g.Height)
	copy(out.Pix, g.Pix)
	return out
}

// MinMax returns the minimum and maximum pixel values.
func (g *Grid) MinMax() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range g.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Rescale returns a copy with values linearly mapped to the full [0, 1]
// range. A flat image maps to all zeros.
func Rescale(g *Grid) *Grid {
	min, max := g.MinMax()
	out := New(g.Width, g.Height)
	span := max - min
	if span <= 0 {
		return out
	}
	for i, v := range g.Pix {
		out.Pix[i] = (v - min) / span
	}
	return out
}

// Clip returns a copy with values clamped to [0, 1].
func Clip(g *Grid) *Grid {
	out := New(g.Width, g.Height)
	for i, v := range g.Pix {
		out.Pix[i] = math.Min(1, math.Max(0, v))
	}
	return out
}

// FromImage converts a decoded image to a grid of [0, 1] luminance
// values using ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B).
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r>>8) / 255.0
			gf := float64(g>>8) / 255.0
			bf := float64(b>>8) / 255.0
			out.Set(x, y, 0.299*rf+0.587*gf+0.114*bf)
		}
	}
	return out
}

// ToImage converts the grid to an 8-bit grayscale image, clamping
// values to [0, 1] before quantization.
func (g *Grid) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := math.Min(1, math.Max(0, g.At(x, y)))
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}
	return img
}
