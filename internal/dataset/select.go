package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmorell/vision-figures/internal/config"
)

// Selection records one staged study image and where it came from.
type Selection struct {
	ID          string // I01 .. I09
	Domain      string // Medical, Industrial, Satellite
	Source      string // dataset name
	Description string
	Path        string // staged PNG path
}

func stagedID(n int) string {
	return fmt.Sprintf("I%02d", n)
}

// SelectMedical stages up to three chest X-rays picked at the 1/4,
// 2/4 and 3/4 positions of the sorted CXR listing, as I01..I03.
func SelectMedical(cxrDir, imagesDir string) ([]Selection, error) {
	images := ListImages(cxrDir)
	if len(images) == 0 {
		return nil, nil
	}

	step := len(images) / 4
	var out []Selection
	for i, idx := range []int{step, step * 2, step * 3} {
		if idx >= len(images) {
			continue
		}
		id := stagedID(i + 1)
		dst := filepath.Join(imagesDir, id+".png")
		if err := StagePNG(images[idx], dst); err != nil {
			return out, fmt.Errorf("staging %s: %w", id, err)
		}
		out = append(out, Selection{
			ID:          id,
			Domain:      "Medical",
			Source:      "Open-I (Indiana CXR)",
			Description: "Chest X-ray",
			Path:        dst,
		})
	}
	return out, nil
}

// SelectIndustrial stages the first defect image of each MVTec
// category as I04..I06. Defect images live in the category's test/
// tree, in any subdirectory other than "good".
func SelectIndustrial(mvtecDir, imagesDir string) ([]Selection, error) {
	var out []Selection
	next := 4
	for _, cat := range config.MVTecCategories {
		if next > 6 {
			break
		}
		src, defect := firstDefectImage(filepath.Join(mvtecDir, cat, "test"))
		if src == "" {
			continue
		}

		id := stagedID(next)
		dst := filepath.Join(imagesDir, id+".png")
		if err := StagePNG(src, dst); err != nil {
			return out, fmt.Errorf("staging %s: %w", id, err)
		}
		out = append(out, Selection{
			ID:          id,
			Domain:      "Industrial",
			Source:      "MVTec AD",
			Description: fmt.Sprintf("%s (%s)", cat, defect),
			Path:        dst,
		})
		next++
	}
	return out, nil
}

// firstDefectImage returns the first image in the first non-"good"
// subdirectory of an MVTec test tree, plus the defect name.
func firstDefectImage(testDir string) (path, defect string) {
	entries, err := os.ReadDir(testDir)
	if err != nil {
		return "", ""
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "good" {
			continue
		}
		images := ListImages(filepath.Join(testDir, entry.Name()))
		if len(images) > 0 {
			return images[0], entry.Name()
		}
	}
	return "", ""
}

// SelectSatellite stages the first three images of the EuroSAT
// directory as I07..I09, using the file stem as the land-use class.
func SelectSatellite(eurosatDir, imagesDir, source string) ([]Selection, error) {
	images := ListImages(eurosatDir)
	var out []Selection
	for i, src := range images {
		if i >= 3 {
			break
		}
		id := stagedID(7 + i)
		dst := filepath.Join(imagesDir, id+".png")
		if err := StagePNG(src, dst); err != nil {
			return out, fmt.Errorf("staging %s: %w", id, err)
		}
		class := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		out = append(out, Selection{
			ID:          id,
			Domain:      "Satellite",
			Source:      source,
			Description: class,
			Path:        dst,
		})
	}
	return out, nil
}

// StagedImages lists the I*.png files in the images directory, sorted.
func StagedImages(imagesDir string) []string {
	matches, _ := filepath.Glob(filepath.Join(imagesDir, "I*.png"))
	sort.Strings(matches)
	return matches
}
