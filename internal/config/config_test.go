package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.UI.Debounce != 200*time.Millisecond {
		t.Errorf("Debounce = %v, want 200ms", cfg.UI.Debounce)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stylizer.yaml")
	content := `
model:
  file: /opt/models/style.onnx
  backend: cuda
ui:
  debounce: 350ms
save:
  jpeg_quality: 80
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model.File != "/opt/models/style.onnx" {
		t.Errorf("Model.File = %q", cfg.Model.File)
	}
	if cfg.Model.Backend != "cuda" {
		t.Errorf("Model.Backend = %q", cfg.Model.Backend)
	}
	if cfg.UI.Debounce != 350*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.UI.Debounce)
	}
	if cfg.Save.JPEGQuality != 80 {
		t.Errorf("JPEGQuality = %d", cfg.Save.JPEGQuality)
	}
	// untouched keys keep defaults
	if cfg.Model.ContentInput != "placeholder" {
		t.Errorf("ContentInput = %q, want default", cfg.Model.ContentInput)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
	cfg, err := Load("")
	if err != nil || cfg == nil {
		t.Fatalf("Load(\"\") = %v, %v", cfg, err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DEBUG":              "1",
		"STYLIZER_MODEL_URL": "http://example.test/model.onnx",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Model.URL != "http://example.test/model.onnx" {
		t.Errorf("Model.URL = %q", cfg.Model.URL)
	}

	env["LOG_LEVEL"] = "error"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Log.Level != "error" {
		t.Errorf("LOG_LEVEL should win over DEBUG, got %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no model", func(c *Config) { c.Model.URL = ""; c.Model.File = "" }, "url or file"},
		{"no inputs", func(c *Config) { c.Model.StyleInput = " " }, "style_input"},
		{"backend", func(c *Config) { c.Model.Backend = "tpu" }, "unknown backend"},
		{"debounce", func(c *Config) { c.UI.Debounce = 0 }, "debounce"},
		{"quality", func(c *Config) { c.Save.JPEGQuality = 101 }, "jpeg_quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestModelCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Model.CacheDir = "/tmp/custom"
	if got := cfg.ModelCacheDir(); got != "/tmp/custom" {
		t.Errorf("ModelCacheDir = %q", got)
	}
	cfg.Model.CacheDir = ""
	if got := cfg.ModelCacheDir(); !strings.HasSuffix(got, filepath.Join(AppName, "models")) {
		t.Errorf("ModelCacheDir = %q", got)
	}
}
