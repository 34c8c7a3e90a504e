// Package config loads and validates the YAML configuration for
// vision-figures. Values in the file may reference environment variables
// using $NAME or ${NAME} syntax; they are expanded before parsing.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// MVTec AD categories used for the industrial images, in staging order.
var MVTecCategories = []string{"grid", "leather", "metal_nut"}

// Config is the root application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Dirs     DirsConfig     `yaml:"dirs"`
	Download DownloadConfig `yaml:"download"`
	Sources  SourcesConfig  `yaml:"sources"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// LogLevel is a zerolog level string: trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DirsConfig holds the three working directories. All paths may be
// relative to the working directory; they are created on demand.
type DirsConfig struct {
	// Raw stages downloaded archives and their extracted trees.
	Raw string `yaml:"raw"`

	// Images holds the nine staged grayscale PNGs (I01.png .. I09.png).
	Images string `yaml:"images"`

	// Figures receives the rendered artifacts.
	Figures string `yaml:"figures"`
}

// Validate validates the directory configuration.
func (c *DirsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Raw, validation.Required),
		validation.Field(&c.Images, validation.Required),
		validation.Field(&c.Figures, validation.Required),
	)
}

// DownloadConfig holds the HTTP client settings. There is deliberately
// no retry or checksum configuration: a failed download is reported and
// the run continues with whatever data exists.
type DownloadConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Validate validates the download configuration.
func (c *DownloadConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(600)),
	)
}

// SourcesConfig points at the three public datasets.
type SourcesConfig struct {
	// MedicalURL is the Indiana University chest X-ray archive (zip).
	MedicalURL string `yaml:"medical_url"`

	// MVTec maps category name to its tar.xz archive URL.
	MVTec map[string]string `yaml:"mvtec"`

	// EuroSATDir is an optional local directory of EuroSAT RGB class
	// images. When empty or missing, synthetic fallback tiles are used
	// for the satellite slots.
	EuroSATDir string `yaml:"eurosat_dir"`
}

// Validate validates the dataset sources.
func (c *SourcesConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.MedicalURL, validation.Required),
	); err != nil {
		return err
	}
	for _, cat := range MVTecCategories {
		if c.MVTec[cat] == "" {
			return fmt.Errorf("sources: missing mvtec url for category %q", cat)
		}
	}
	return nil
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if err := c.Dirs.Validate(); err != nil {
		return err
	}
	if err := c.Download.Validate(); err != nil {
		return err
	}
	return c.Sources.Validate()
}

// Default returns the configuration matching the original study constants.
func Default() *Config {
	return &Config{
		App: AppConfig{LogLevel: "info"},
		Dirs: DirsConfig{
			Raw:     "data_raw",
			Images:  "images",
			Figures: "figures",
		},
		Download: DownloadConfig{TimeoutSeconds: 120},
		Sources: SourcesConfig{
			MedicalURL: "https://data.lhncbc.nlm.nih.gov/public/chest-xray/indiana.zip",
			MVTec: map[string]string{
				"grid":      "https://www.mydrive.ch/shares/38536/3830184030e49fe74747669442f0f283/download/420937487-1629959044/grid.tar.xz",
				"leather":   "https://www.mydrive.ch/shares/38536/3830184030e49fe74747669442f0f283/download/420937607-1629959262/leather.tar.xz",
				"metal_nut": "https://www.mydrive.ch/shares/38536/3830184030e49fe74747669442f0f283/download/420937637-1629959282/metal_nut.tar.xz",
			},
		},
	}
}

// Load reads a YAML config file into the defaults, expanding environment
// variables, and validates the result. A missing file is not an error:
// the defaults are returned unchanged so the tool runs without any setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
