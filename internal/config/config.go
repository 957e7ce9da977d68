// Package config holds runtime settings. Values come from defaults, an
// optional YAML file, environment variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AppName = "neural-stylizer"

	// DefaultModelURL points at an ONNX export of the Magenta arbitrary image
	// stylization network.
	DefaultModelURL = "https://huggingface.co/onnx-community/magenta-arbitrary-image-stylization-v1-256/resolve/main/model.onnx"
)

type Config struct {
	Model ModelConfig `yaml:"model"`
	UI    UIConfig    `yaml:"ui"`
	Save  SaveConfig  `yaml:"save"`
	Log   LogConfig   `yaml:"log"`
}

type ModelConfig struct {
	URL          string `yaml:"url"`
	File         string `yaml:"file"`
	CacheDir     string `yaml:"cache_dir"`
	Refresh      bool   `yaml:"-"`
	ContentInput string `yaml:"content_input"`
	StyleInput   string `yaml:"style_input"`
	Output       string `yaml:"output"`
	Backend      string `yaml:"backend"`
}

type UIConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Width    float32       `yaml:"width"`
	Height   float32       `yaml:"height"`
}

type SaveConfig struct {
	JPEGQuality int `yaml:"jpeg_quality"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			URL:          DefaultModelURL,
			ContentInput: "placeholder",
			StyleInput:   "placeholder_1",
			Backend:      "default",
		},
		UI: UIConfig{
			Debounce: 200 * time.Millisecond,
			Width:    1100,
			Height:   700,
		},
		Save: SaveConfig{JPEGQuality: 95},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	}
}

// Load reads path over the defaults. A missing file at an empty path is not
// an error; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays LOG_LEVEL, DEBUG and STYLIZER_MODEL_URL.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	} else if getenv("DEBUG") == "1" {
		c.Log.Level = "debug"
	}
	if v := getenv("STYLIZER_MODEL_URL"); v != "" {
		c.Model.URL = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Model.URL == "" && c.Model.File == "" {
		errs = append(errs, errors.New("model: either url or file is required"))
	}
	if strings.TrimSpace(c.Model.ContentInput) == "" || strings.TrimSpace(c.Model.StyleInput) == "" {
		errs = append(errs, errors.New("model: content_input and style_input are required"))
	}
	switch c.Model.Backend {
	case "default", "opencv", "cuda":
	default:
		errs = append(errs, fmt.Errorf("model: unknown backend %q", c.Model.Backend))
	}
	if c.UI.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("ui: debounce must be positive, got %s", c.UI.Debounce))
	}
	if c.Save.JPEGQuality < 1 || c.Save.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("save: jpeg_quality must be in 1..100, got %d", c.Save.JPEGQuality))
	}
	return errors.Join(errs...)
}

// ModelCacheDir resolves the directory downloaded models are stored in.
func (c *Config) ModelCacheDir() string {
	if c.Model.CacheDir != "" {
		return c.Model.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName, "models")
}
