package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Longer-side bound for staged images.
const stageMaxSide = 512

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ListImages returns all PNG/JPEG files under root, sorted by path.
// A missing root yields an empty list, not an error: the caller treats
// absent datasets as partial data.
func ListImages(root string) []string {
	var files []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && imageExts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files
}

// StagePNG converts a source image to the staged form: grayscale,
// longer side at most 512 (Lanczos, never upscaled), written as PNG.
func StagePNG(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}

	out := imaging.Grayscale(img)
	bounds := out.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if longer > stageMaxSide {
		scale := float64(longer) / float64(stageMaxSide)
		out = imaging.Resize(out, int(float64(w)/scale), int(float64(h)/scale), imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %w", err)
	}
	if err := imaging.Save(out, dst); err != nil {
		return fmt.Errorf("failed to save %s: %w", dst, err)
	}
	return nil
}
