// Package figure renders the report artifacts: the 3x3 originals
// grid, per-image filter montages, and histogram line plots. All
// rendering is plain RGBA compositing; artifacts are written once as
// PNG and never read back.
package figure

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dmorell/vision-figures/internal/gray"
)

// Panel is one labeled image cell in a mosaic figure.
type Panel struct {
	Label string
	Image *gray.Grid
}

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)

// newCanvas allocates a white background canvas.
func newCanvas(width, height int) *image.NRGBA {
	return imaging.New(width, height, white)
}

// drawLabel draws text with its top-left corner at (x, y).
func drawLabel(dst *image.NRGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)
}

// labelWidth returns the rendered width of text in pixels.
func labelWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// drawCentered draws text horizontally centered on centerX.
func drawCentered(dst *image.NRGBA, centerX, y int, text string, col color.Color) {
	drawLabel(dst, centerX-labelWidth(text)/2, y, text, col)
}

// drawHLine and drawVLine draw 1-pixel axis-aligned lines.
func drawHLine(dst *image.NRGBA, x1, x2, y int, col color.NRGBA) {
	for x := x1; x <= x2; x++ {
		dst.SetNRGBA(x, y, col)
	}
}

func drawVLine(dst *image.NRGBA, x, y1, y2 int, col color.NRGBA) {
	for y := y1; y <= y2; y++ {
		dst.SetNRGBA(x, y, col)
	}
}

// drawLine draws an arbitrary 1-pixel segment (Bresenham).
func drawLine(dst *image.NRGBA, x1, y1, x2, y2 int, col color.NRGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		if image.Pt(x1, y1).In(dst.Bounds()) {
			dst.SetNRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// SavePNG writes a rendered figure, creating the parent directory on
// demand. The extension of path selects the encoder; all callers pass
// .png names.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create figures dir: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save figure %s: %w", path, err)
	}
	return nil
}
