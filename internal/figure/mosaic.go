package figure

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/dmorell/vision-figures/internal/gray"
)

// Mosaic layout constants. Cells are square; each image is fitted
// preserving aspect ratio and centered.
const (
	gridCell    = 300
	montageCell = 260
	cellMargin  = 10
	captionH    = 18
	titleH      = 26
)

// renderMosaic lays panels out in a cols x rows grid with a caption
// strip under each cell and an optional title line on top.
func renderMosaic(title string, panels []Panel, cols, rows, cell int) *image.NRGBA {
	top := 0
	if title != "" {
		top = titleH
	}
	width := cols*(cell+cellMargin) + cellMargin
	height := top + rows*(cell+captionH+cellMargin) + cellMargin

	canvas := newCanvas(width, height)
	if title != "" {
		drawCentered(canvas, width/2, (titleH-13)/2, title, black)
	}

	for i, p := range panels {
		if i >= cols*rows {
			break
		}
		col, row := i%cols, i/cols
		x0 := cellMargin + col*(cell+cellMargin)
		y0 := top + cellMargin + row*(cell+captionH+cellMargin)

		fitted := imaging.Fit(p.Image.ToImage(), cell, cell, imaging.Lanczos)
		offX := x0 + (cell-fitted.Bounds().Dx())/2
		offY := y0 + (cell-fitted.Bounds().Dy())/2
		canvas = imaging.Paste(canvas, fitted, image.Pt(offX, offY))

		drawCentered(canvas, x0+cell/2, y0+cell+3, p.Label, black)
	}
	return canvas
}

// RenderOriginalsGrid renders the 3x3 overview of the nine staged
// images. Callers pass panels labeled "I0N (Domain)".
func RenderOriginalsGrid(panels []Panel) *image.NRGBA {
	return renderMosaic("", panels, 3, 3, gridCell)
}

// RenderMontage renders the 2x4 filter comparison for one image.
func RenderMontage(title string, panels []Panel) *image.NRGBA {
	return renderMosaic(title, panels, 4, 2, montageCell)
}

// MontagePanels assembles the fixed montage selection for one
// normalized image: the original, three spatial filters, the sobel
// edge map, two morphology results at radius 4 and the first pipeline.
func MontagePanels(x *gray.Grid, spatial, morph, pipes map[string]*gray.Grid) []Panel {
	return []Panel{
		{Label: "original", Image: x},
		{Label: "gaussian_s1", Image: spatial["gaussian_s1"]},
		{Label: "median_r2", Image: spatial["median_r2"]},
		{Label: "unsharp", Image: spatial["unsharp_r1_a1"]},
		{Label: "sobel", Image: spatial["sobel"]},
		{Label: "closing_r4", Image: morph["closing_r4"]},
		{Label: "opening_r4", Image: morph["opening_r4"]},
		{Label: "P1_med+unsharp", Image: pipes["P1_med3+unsharp"]},
	}
}
