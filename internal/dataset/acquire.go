package dataset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dmorell/vision-figures/internal/config"
)

// Layout of the raw data directory.
func indianaZip(rawDir string) string { return filepath.Join(rawDir, "indiana.zip") }

// IndianaDir is the extraction root of the chest X-ray archive.
func IndianaDir(rawDir string) string { return filepath.Join(rawDir, "indiana") }

// CXRDir is the directory holding the X-ray PNGs inside the extracted
// Indiana archive.
func CXRDir(rawDir string) string {
	return filepath.Join(IndianaDir(rawDir), "indiana", "CXR_png")
}

// MVTecDir is the extraction root shared by the MVTec categories.
func MVTecDir(rawDir string) string { return filepath.Join(rawDir, "mvtec") }

// Acquire downloads and extracts the medical and industrial datasets
// into rawDir. Failures are logged and skipped so a later stage can
// still work with partial data; extraction is skipped when the target
// directory already exists.
func (c *Client) Acquire(ctx context.Context, sources config.SourcesConfig, rawDir string) {
	if _, err := os.Stat(IndianaDir(rawDir)); os.IsNotExist(err) {
		zipPath := indianaZip(rawDir)
		if err := c.Download(ctx, sources.MedicalURL, zipPath); err != nil {
			c.log.Warn().Err(err).Msg("medical dataset unavailable, continuing without it")
		} else {
			c.log.Info().Str("file", filepath.Base(zipPath)).Msg("extracting")
			if err := ExtractZip(zipPath, IndianaDir(rawDir)); err != nil {
				c.log.Warn().Err(err).Msg("medical extraction failed, continuing without it")
			}
		}
	}

	mvtecDir := MVTecDir(rawDir)
	for _, cat := range config.MVTecCategories {
		if _, err := os.Stat(filepath.Join(mvtecDir, cat)); err == nil {
			continue
		}
		url, ok := sources.MVTec[cat]
		if !ok {
			continue
		}
		tarPath := filepath.Join(rawDir, "mvtec_"+cat+".tar.xz")
		if err := c.Download(ctx, url, tarPath); err != nil {
			c.log.Warn().Err(err).Str("category", cat).Msg("mvtec category unavailable, continuing without it")
			continue
		}
		c.log.Info().Str("file", filepath.Base(tarPath)).Msg("extracting")
		if err := ExtractTarXz(tarPath, mvtecDir); err != nil {
			c.log.Warn().Err(err).Str("category", cat).Msg("mvtec extraction failed, continuing without it")
		}
	}
}
