package filterbank

import (
	"fmt"
	"image"

	"github.com/dmorell/vision-figures/internal/gray"
)

// Disk returns the pixel offsets of a disk-shaped structuring element:
// all (dx, dy) with dx^2 + dy^2 <= r^2. A radius of 0 is the single
// center pixel.
func Disk(radius int) []image.Point {
	var offsets []image.Point
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				offsets = append(offsets, image.Pt(dx, dy))
			}
		}
	}
	return offsets
}

// Erode replaces each pixel with the minimum over the structuring
// element. Offsets falling outside the image are ignored, which for a
// symmetric element keeps the erosion/dilation pair an adjunction, so
// opening and closing stay idempotent.
func Erode(x *gray.Grid, se []image.Point) *gray.Grid {
	return reduceSE(x, se, func(a, b float64) bool { return b < a })
}

// Dilate replaces each pixel with the maximum over the structuring
// element.
func Dilate(x *gray.Grid, se []image.Point) *gray.Grid {
	return reduceSE(x, se, func(a, b float64) bool { return b > a })
}

func reduceSE(x *gray.Grid, se []image.Point, better func(current, candidate float64) bool) *gray.Grid {
	out := gray.New(x.Width, x.Height)
	for y := 0; y < x.Height; y++ {
		for px := 0; px < x.Width; px++ {
			best := x.At(px, y)
			for _, off := range se {
				sx, sy := px+off.X, y+off.Y
				if sx < 0 || sx >= x.Width || sy < 0 || sy >= x.Height {
					continue
				}
				if v := x.At(sx, sy); better(best, v) {
					best = v
				}
			}
			out.Set(px, y, best)
		}
	}
	return out
}

// Open performs grayscale opening: dilation of the erosion.
func Open(x *gray.Grid, se []image.Point) *gray.Grid {
	return Dilate(Erode(x, se), se)
}

// Close performs grayscale closing: erosion of the dilation.
func Close(x *gray.Grid, se []image.Point) *gray.Grid {
	return Erode(Dilate(x, se), se)
}

// WhiteTophat returns x minus its opening, isolating bright details
// smaller than the structuring element.
func WhiteTophat(x *gray.Grid, se []image.Point) *gray.Grid {
	opened := Open(x, se)
	out := gray.New(x.Width, x.Height)
	for i := range x.Pix {
		out.Pix[i] = x.Pix[i] - opened.Pix[i]
	}
	return out
}

// MorphologyKeys is the fixed key set of the morphology bank for a
// given radius, in presentation order.
func MorphologyKeys(radius int) []string {
	return []string{
		fmt.Sprintf("opening_r%d", radius),
		fmt.Sprintf("closing_r%d", radius),
		fmt.Sprintf("tophat_r%d", radius),
		fmt.Sprintf("erosion_r%d", radius),
		fmt.Sprintf("dilation_r%d", radius),
	}
}

// Morphology applies the morphological bank with a disk structuring
// element of the given radius.
func Morphology(x *gray.Grid, radius int) map[string]*gray.Grid {
	se := Disk(radius)
	return map[string]*gray.Grid{
		fmt.Sprintf("opening_r%d", radius):  Open(x, se),
		fmt.Sprintf("closing_r%d", radius):  Close(x, se),
		fmt.Sprintf("tophat_r%d", radius):   WhiteTophat(x, se),
		fmt.Sprintf("erosion_r%d", radius):  Erode(x, se),
		fmt.Sprintf("dilation_r%d", radius): Dilate(x, se),
	}
}
