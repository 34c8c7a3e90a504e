package figure

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dmorell/vision-figures/internal/gray"
)

// HistogramBins is the fixed bin count of the intensity histograms.
const HistogramBins = 256

// Series is one labeled curve in a histogram plot.
type Series struct {
	Label  string
	Values []float64 // density per bin
}

// Histogram computes the density histogram of a grid over [0, 1] with
// HistogramBins bins: counts normalized so the curve integrates to 1.
func Histogram(g *gray.Grid) []float64 {
	dividers := floats.Span(make([]float64, HistogramBins+1), 0, 1)
	// stat.Histogram treats the top divider as exclusive; nudge it so
	// pixels at exactly 1.0 land in the last bin.
	dividers[HistogramBins] = math.Nextafter(1, 2)

	values := append([]float64(nil), g.Pix...)
	sort.Float64s(values)

	counts := stat.Histogram(nil, dividers, values, nil)
	binWidth := 1.0 / HistogramBins
	total := float64(len(g.Pix))
	for i := range counts {
		counts[i] /= total * binWidth
	}
	return counts
}

// Plot geometry.
const (
	plotW        = 800
	plotH        = 500
	plotLeft     = 60
	plotRight    = 20
	plotTop      = 40
	plotBottom   = 50
	legendSwatch = 14
)

// paletteColor returns a stable, well-separated line color per series
// index, stepping the hue by the golden angle.
func paletteColor(i int) color.NRGBA {
	h := math.Mod(float64(i)*137.5+210, 360)
	c := colorful.Hsv(h, 0.75, 0.80)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// RenderHistogram renders overlaid density curves for the given
// series on shared [0, 1] x [0, max] axes, with a legend in the top
// right corner.
func RenderHistogram(title string, series []Series) *image.NRGBA {
	canvas := newCanvas(plotW, plotH)

	innerW := plotW - plotLeft - plotRight
	innerH := plotH - plotTop - plotBottom

	drawHLine(canvas, plotLeft, plotLeft+innerW, plotTop+innerH, black)
	drawVLine(canvas, plotLeft, plotTop, plotTop+innerH, black)

	// X ticks at quarters of the intensity range.
	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		x := plotLeft + int(frac*float64(innerW))
		drawVLine(canvas, x, plotTop+innerH, plotTop+innerH+4, black)
		drawCentered(canvas, x, plotTop+innerH+8, fmt.Sprintf("%g", frac), black)
	}

	drawCentered(canvas, plotLeft+innerW/2, plotH-18, "intensity (0-1)", black)
	drawCentered(canvas, plotW/2, (plotTop-13)/2, title, black)

	// Shared y scale across all curves.
	var maxDensity float64
	for _, s := range series {
		for _, v := range s.Values {
			if v > maxDensity {
				maxDensity = v
			}
		}
	}
	if maxDensity == 0 {
		maxDensity = 1
	}

	for i, s := range series {
		col := paletteColor(i)
		var prevX, prevY int
		for bin, v := range s.Values {
			frac := (float64(bin) + 0.5) / float64(len(s.Values))
			x := plotLeft + int(frac*float64(innerW))
			y := plotTop + innerH - int(v/maxDensity*float64(innerH))
			if bin > 0 {
				drawLine(canvas, prevX, prevY, x, y, col)
			}
			prevX, prevY = x, y
		}

		ly := plotTop + 8 + i*(legendSwatch+8)
		lx := plotLeft + innerW - 160
		for dy := 0; dy < legendSwatch; dy++ {
			drawHLine(canvas, lx, lx+legendSwatch, ly+dy, col)
		}
		drawLabel(canvas, lx+legendSwatch+6, ly, s.Label, black)
	}

	return canvas
}
