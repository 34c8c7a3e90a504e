package dataset

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const fallbackTileSize = 256

// SyntheticSatelliteTiles writes three deterministic stand-in tiles
// (River, Highway, Industrial) into destDir and returns their paths.
// They substitute the EuroSAT source when no local directory is
// configured, so the satellite slots of the figures never stay empty.
func SyntheticSatelliteTiles(destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fallback dir: %w", err)
	}

	tiles := []struct {
		class string
		pixel func(x, y int) color.NRGBA
	}{
		{"River", riverPixel},
		{"Highway", highwayPixel},
		{"Industrial", industrialPixel},
	}

	var paths []string
	for _, tile := range tiles {
		img := image.NewNRGBA(image.Rect(0, 0, fallbackTileSize, fallbackTileSize))
		for y := 0; y < fallbackTileSize; y++ {
			for x := 0; x < fallbackTileSize; x++ {
				img.SetNRGBA(x, y, tile.pixel(x, y))
			}
		}
		path := filepath.Join(destDir, tile.class+".png")
		if err := imaging.Save(img, path); err != nil {
			return paths, fmt.Errorf("failed to write fallback tile %s: %w", tile.class, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// riverPixel draws a meandering dark band through a textured field.
func riverPixel(x, y int) color.NRGBA {
	center := float64(fallbackTileSize)/2 + 40*math.Sin(float64(y)/30)
	dist := math.Abs(float64(x) - center)
	if dist < 18 {
		return color.NRGBA{R: 40, G: 70, B: 120, A: 255}
	}
	v := uint8(90 + 40*math.Sin(float64(x)/7)*math.Sin(float64(y)/11))
	return color.NRGBA{R: v / 2, G: v, B: v / 3, A: 255}
}

// highwayPixel draws a straight diagonal road with a center line.
func highwayPixel(x, y int) color.NRGBA {
	dist := math.Abs(float64(x-y)) / math.Sqrt2
	switch {
	case dist < 2:
		return color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	case dist < 14:
		return color.NRGBA{R: 70, G: 70, B: 75, A: 255}
	}
	v := uint8(100 + 30*math.Sin(float64(x)/13)*math.Cos(float64(y)/9))
	return color.NRGBA{R: v / 2, G: v, B: v / 2, A: 255}
}

// industrialPixel draws a block grid resembling warehouse roofs.
func industrialPixel(x, y int) color.NRGBA {
	bx, by := (x/32)%2, (y/24)%2
	if bx == by {
		v := uint8(150 + 20*((x/32+y/24)%3))
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	return color.NRGBA{R: 80, G: 85, B: 90, A: 255}
}
