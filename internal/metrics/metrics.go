// Package metrics scores filtered images against their originals so
// the report can rank smoothing filters per image: structural
// similarity, a robust noise estimate, and global contrast.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/dmorell/vision-figures/internal/filterbank"
	"github.com/dmorell/vision-figures/internal/gray"
)

// SSIM parameters for a [0, 1] data range.
const (
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
)

// SSIM computes the mean structural similarity index between two grids
// of equal size, using a 7x7 uniform window over valid positions,
// K1=0.01, K2=0.03 and data range 1.0. Identical inputs score 1.
func SSIM(x, y *gray.Grid) (float64, error) {
	if x.Width != y.Width || x.Height != y.Height {
		return 0, fmt.Errorf("ssim: size mismatch %dx%d vs %dx%d", x.Width, x.Height, y.Width, y.Height)
	}
	if x.Width < ssimWindow || x.Height < ssimWindow {
		return 0, fmt.Errorf("ssim: image %dx%d smaller than %dx%d window", x.Width, x.Height, ssimWindow, ssimWindow)
	}

	c1 := ssimK1 * ssimK1
	c2 := ssimK2 * ssimK2
	n := float64(ssimWindow * ssimWindow)
	// Unbiased covariance normalization, matching the conventional
	// estimator.
	covNorm := n / (n - 1)

	var total float64
	var windows int
	for wy := 0; wy+ssimWindow <= x.Height; wy++ {
		for wx := 0; wx+ssimWindow <= x.Width; wx++ {
			var sumX, sumY, sumXX, sumYY, sumXY float64
			for dy := 0; dy < ssimWindow; dy++ {
				for dx := 0; dx < ssimWindow; dx++ {
					a := x.At(wx+dx, wy+dy)
					b := y.At(wx+dx, wy+dy)
					sumX += a
					sumY += b
					sumXX += a * a
					sumYY += b * b
					sumXY += a * b
				}
			}
			muX := sumX / n
			muY := sumY / n
			varX := covNorm * (sumXX/n - muX*muX)
			varY := covNorm * (sumYY/n - muY*muY)
			covXY := covNorm * (sumXY/n - muX*muY)

			num := (2*muX*muY + c1) * (2*covXY + c2)
			den := (muX*muX + muY*muY + c1) * (varX + varY + c2)
			total += num / den
			windows++
		}
	}
	return total / float64(windows), nil
}

// SigmaHat is a fast robust noise estimate: the median absolute
// deviation of the high-pass residual x - gaussian(x, 1), scaled by
// 1.4826 to be consistent with a Gaussian standard deviation.
func SigmaHat(x *gray.Grid) float64 {
	blurred := filterbank.Gaussian(x, 1.0)
	hp := make([]float64, len(x.Pix))
	for i := range x.Pix {
		hp[i] = x.Pix[i] - blurred.Pix[i]
	}

	med := median(hp)
	dev := make([]float64, len(hp))
	for i, v := range hp {
		if v >= med {
			dev[i] = v - med
		} else {
			dev[i] = med - v
		}
	}
	return 1.4826 * median(dev)
}

// median returns the middle value of vs, averaging the two central
// elements for even lengths. The input slice is sorted in place.
func median(vs []float64) float64 {
	sort.Float64s(vs)
	n := len(vs)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return vs[n/2]
	}
	return (vs[n/2-1] + vs[n/2]) / 2
}

// Contrast is the population standard deviation of the pixel values.
func Contrast(x *gray.Grid) float64 {
	return stat.PopStdDev(x.Pix, nil)
}

// FilterScore holds the metrics of one filtered image.
type FilterScore struct {
	Name     string
	SSIM     float64
	SigmaHat float64
	Contrast float64
}

// Rank scores the named filter results against the original and
// returns them sorted by SSIM, best first. Edge maps (sobel, laplace,
// canny) are skipped: similarity to the original is meaningless for
// them.
func Rank(original *gray.Grid, results map[string]*gray.Grid, keys []string) ([]FilterScore, error) {
	skip := make(map[string]bool, len(filterbank.EdgeKeys))
	for _, k := range filterbank.EdgeKeys {
		skip[k] = true
	}

	var scores []FilterScore
	for _, name := range keys {
		y, ok := results[name]
		if !ok || skip[name] {
			continue
		}
		s, err := SSIM(original, y)
		if err != nil {
			return nil, fmt.Errorf("scoring %s: %w", name, err)
		}
		scores = append(scores, FilterScore{
			Name:     name,
			SSIM:     s,
			SigmaHat: SigmaHat(y),
			Contrast: Contrast(y),
		})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].SSIM > scores[j].SSIM })
	return scores, nil
}

// FormatTable renders scores as the aligned text table printed in the
// run summary.
func FormatTable(scores []FilterScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %8s %8s %10s\n", "filter", "ssim", "sigma", "contrast")
	b.WriteString(strings.Repeat("-", 50))
	b.WriteString("\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "%-20s %8.3f %8.3f %10.3f\n", s.Name, s.SSIM, s.SigmaHat, s.Contrast)
	}
	return b.String()
}
