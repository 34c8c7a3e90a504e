package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dirs.Images != "images" {
		t.Errorf("Images dir: got %q, want %q", cfg.Dirs.Images, "images")
	}
	if cfg.Download.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds: got %d, want 120", cfg.Download.TimeoutSeconds)
	}
}

func TestLoad_OverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("FIG_OUT", "out/figs")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  log_level: debug
dirs:
  figures: ${FIG_OUT}
download:
  timeout_seconds: 30
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.App.LogLevel)
	}
	if cfg.Dirs.Figures != "out/figs" {
		t.Errorf("Figures: got %q, want out/figs", cfg.Dirs.Figures)
	}
	if cfg.Download.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds: got %d, want 30", cfg.Download.TimeoutSeconds)
	}
	// Fields not mentioned in the file keep their defaults.
	if cfg.Dirs.Raw != "data_raw" {
		t.Errorf("Raw: got %q, want data_raw", cfg.Dirs.Raw)
	}
}

func TestLoad_InvalidTimeoutRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "download:\n  timeout_seconds: 9999\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for out-of-range timeout")
	}
}

func TestSourcesValidate_MissingMVTecCategory(t *testing.T) {
	cfg := Default()
	delete(cfg.Sources.MVTec, "leather")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing mvtec category url")
	}
}
