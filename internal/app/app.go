// Package app wires the stages of a figure-generation run: dataset
// acquisition, image selection, filter application and figure
// rendering. Stages run sequentially; acquisition failures degrade to
// partial output instead of aborting.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmorell/vision-figures/internal/config"
	"github.com/dmorell/vision-figures/internal/dataset"
	"github.com/dmorell/vision-figures/internal/figure"
	"github.com/dmorell/vision-figures/internal/filterbank"
	"github.com/dmorell/vision-figures/internal/gray"
	"github.com/dmorell/vision-figures/internal/metrics"
)

// Size bounds: the overview grid uses smaller cells than the montage
// and metric paths.
const (
	gridBound    = 400
	montageBound = 512
)

// Images that get a montage and a histogram figure: one per domain.
var figureTargets = []string{"I01", "I04", "I07"}

// Satellite images scored in the regen metrics table.
var metricTargets = []string{"I07", "I08", "I09"}

// App runs the figure-generation stages against one configuration.
type App struct {
	cfg   *config.Config
	log   zerolog.Logger
	cache *gray.Cache
}

// New builds an App.
func New(cfg *config.Config, log zerolog.Logger) *App {
	return &App{
		cfg:   cfg,
		log:   log,
		cache: gray.NewCache(),
	}
}

// Generate performs a full run: acquire datasets, select and stage the
// nine study images, then render every figure.
func (a *App) Generate(ctx context.Context) error {
	if err := a.ensureDirs(); err != nil {
		return err
	}

	client := dataset.NewClient(time.Duration(a.cfg.Download.TimeoutSeconds)*time.Second, a.log)
	client.Acquire(ctx, a.cfg.Sources, a.cfg.Dirs.Raw)

	selections, err := a.selectImages()
	if err != nil {
		return err
	}
	for _, s := range selections {
		a.log.Info().
			Str("id", s.ID).
			Str("domain", s.Domain).
			Str("source", s.Source).
			Str("description", s.Description).
			Msg("staged")
	}
	a.log.Info().Int("count", len(selections)).Msg("images selected")

	return a.RenderFigures()
}

// Regen re-renders the figures from already staged images and prints
// the per-filter metrics table for the satellite images.
func (a *App) Regen(ctx context.Context) error {
	if err := a.ensureDirs(); err != nil {
		return err
	}
	if err := a.RenderFigures(); err != nil {
		return err
	}
	return a.reportMetrics()
}

// InvalidateCache drops cached normalized images so the next render
// re-reads staged files from disk. The watch command calls this when
// files change.
func (a *App) InvalidateCache() {
	a.cache.Clear()
}

func (a *App) ensureDirs() error {
	for _, dir := range []string{a.cfg.Dirs.Raw, a.cfg.Dirs.Images, a.cfg.Dirs.Figures} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
	}
	return nil
}

// selectImages stages I01..I09 from whatever datasets are available.
// The satellite slots fall back to synthetic tiles when no EuroSAT
// directory is configured or it holds no images.
func (a *App) selectImages() ([]dataset.Selection, error) {
	var selections []dataset.Selection

	med, err := dataset.SelectMedical(dataset.CXRDir(a.cfg.Dirs.Raw), a.cfg.Dirs.Images)
	if err != nil {
		return nil, err
	}
	if len(med) == 0 {
		a.log.Warn().Msg("no chest X-rays found, medical slots stay empty")
	}
	selections = append(selections, med...)

	ind, err := dataset.SelectIndustrial(dataset.MVTecDir(a.cfg.Dirs.Raw), a.cfg.Dirs.Images)
	if err != nil {
		return nil, err
	}
	if len(ind) == 0 {
		a.log.Warn().Msg("no MVTec defect images found, industrial slots stay empty")
	}
	selections = append(selections, ind...)

	satDir := a.cfg.Sources.EuroSATDir
	satSource := "EuroSAT RGB"
	if satDir == "" || len(dataset.ListImages(satDir)) == 0 {
		a.log.Warn().Msg("EuroSAT source unavailable, using synthetic satellite tiles")
		satDir = filepath.Join(a.cfg.Dirs.Raw, "eurosat")
		satSource = "synthetic fallback"
		if _, err := dataset.SyntheticSatelliteTiles(satDir); err != nil {
			return nil, err
		}
	}
	sat, err := dataset.SelectSatellite(satDir, a.cfg.Dirs.Images, satSource)
	if err != nil {
		return nil, err
	}
	selections = append(selections, sat...)

	return selections, nil
}

// RenderFigures renders the originals grid (when all nine images are
// staged) plus a montage and histogram figure per target image.
func (a *App) RenderFigures() error {
	staged := dataset.StagedImages(a.cfg.Dirs.Images)
	a.log.Info().Int("count", len(staged)).Msg("staged images found")

	if len(staged) >= 9 {
		if err := a.renderGrid(staged[:9]); err != nil {
			return err
		}
	} else {
		a.log.Warn().Int("count", len(staged)).Msg("fewer than 9 staged images, skipping originals grid")
	}

	for _, path := range staged {
		id := strings.TrimSuffix(filepath.Base(path), ".png")
		if !contains(figureTargets, id) {
			continue
		}
		if err := a.renderMontage(id, path); err != nil {
			return err
		}
		if err := a.renderHistogram(id, path); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) renderGrid(staged []string) error {
	panels := make([]figure.Panel, 0, 9)
	for i, path := range staged {
		x, err := a.cache.Load(path, gridBound)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		id := strings.TrimSuffix(filepath.Base(path), ".png")
		panels = append(panels, figure.Panel{
			Label: fmt.Sprintf("%s (%s)", id, domainForIndex(i)),
			Image: x,
		})
	}

	out := filepath.Join(a.cfg.Dirs.Figures, "originals_grid.png")
	if err := figure.SavePNG(figure.RenderOriginalsGrid(panels), out); err != nil {
		return err
	}
	a.log.Info().Str("figure", "originals_grid.png").Msg("rendered")
	return nil
}

func (a *App) renderMontage(id, path string) error {
	x, err := a.cache.Load(path, montageBound)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	spatial := filterbank.Spatial(x)
	morph := filterbank.Morphology(x, 4)
	pipes := filterbank.Pipelines(x)

	panels := figure.MontagePanels(x, spatial, morph, pipes)
	title := fmt.Sprintf("Filter comparison: %s", id)

	out := filepath.Join(a.cfg.Dirs.Figures, id+"_montage.png")
	if err := figure.SavePNG(figure.RenderMontage(title, panels), out); err != nil {
		return err
	}
	a.log.Info().Str("figure", id+"_montage.png").Msg("rendered")
	return nil
}

func (a *App) renderHistogram(id, path string) error {
	x, err := a.cache.Load(path, montageBound)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	series := []figure.Series{
		{Label: "original", Values: figure.Histogram(x)},
		{Label: "gaussian_s1", Values: figure.Histogram(filterbank.Gaussian(x, 1.0))},
		{Label: "unsharp", Values: figure.Histogram(filterbank.Unsharp(x, 1.0, 1.0))},
	}
	title := fmt.Sprintf("Normalized histograms: %s", id)

	out := filepath.Join(a.cfg.Dirs.Figures, id+"_hist.png")
	if err := figure.SavePNG(figure.RenderHistogram(title, series), out); err != nil {
		return err
	}
	a.log.Info().Str("figure", id+"_hist.png").Msg("rendered")
	return nil
}

// reportMetrics prints the per-filter ranking for the satellite
// images to stdout, best SSIM first.
func (a *App) reportMetrics() error {
	for _, id := range metricTargets {
		path := filepath.Join(a.cfg.Dirs.Images, id+".png")
		if _, err := os.Stat(path); err != nil {
			continue
		}

		x, err := a.cache.Load(path, montageBound)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		scores, err := metrics.Rank(x, filterbank.Spatial(x), filterbank.SpatialKeys)
		if err != nil {
			return fmt.Errorf("ranking %s: %w", id, err)
		}

		fmt.Printf("\n%s\n%s", id, metrics.FormatTable(scores))
	}
	return nil
}

func domainForIndex(i int) string {
	switch {
	case i < 3:
		return "Medical"
	case i < 6:
		return "Industrial"
	default:
		return "Satellite"
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
