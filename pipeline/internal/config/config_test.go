package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/menuscore/menuscore/pipeline/internal/cleaner"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
pipeline:
  raw_path: in/menu.csv
  cleaned_path: out/clean.csv
  scored_path: out/scored.csv
  drop: ["Serving Size"]
  top_n: 5
  metrics_path: out/menuscore.prom
  log_level: debug
`
	cfg := loadFromString(t, yaml)
	p := cfg.Pipeline

	if p.RawPath != "in/menu.csv" {
		t.Errorf("raw_path: got %q", p.RawPath)
	}
	if p.CleanedPath != "out/clean.csv" {
		t.Errorf("cleaned_path: got %q", p.CleanedPath)
	}
	if p.ScoredPath != "out/scored.csv" {
		t.Errorf("scored_path: got %q", p.ScoredPath)
	}
	if !reflect.DeepEqual(p.Drop, []string{"Serving Size"}) {
		t.Errorf("drop: got %v", p.Drop)
	}
	if p.TopN != 5 {
		t.Errorf("top_n: got %d", p.TopN)
	}
	if p.MetricsPath != "out/menuscore.prom" {
		t.Errorf("metrics_path: got %q", p.MetricsPath)
	}
	if p.LogLevel != "debug" {
		t.Errorf("log_level: got %q", p.LogLevel)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "pipeline: {}\n")
	assertDefaults(t, cfg)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}
	assertDefaults(t, cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := loadStringErr(t, "pipeline: [unclosed\n"); err == nil {
		t.Fatal("expected error for invalid yaml, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MENUSCORE_SCORED_PATH", "/tmp/scored.csv")
	t.Setenv("MENUSCORE_DROP", "Serving Size,Trans Fat")
	t.Setenv("MENUSCORE_TOP_N", "3")

	cfg := loadFromString(t, `
pipeline:
  scored_path: file/scored.csv
  top_n: 7
`)
	p := cfg.Pipeline
	if p.ScoredPath != "/tmp/scored.csv" {
		t.Errorf("env should override scored_path: got %q", p.ScoredPath)
	}
	if !reflect.DeepEqual(p.Drop, []string{"Serving Size", "Trans Fat"}) {
		t.Errorf("drop: got %v", p.Drop)
	}
	if p.TopN != 3 {
		t.Errorf("top_n: got %d, want 3", p.TopN)
	}
	if p.RawPath != DefaultRawPath {
		t.Errorf("unset env should keep default raw_path: got %q", p.RawPath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty raw path", `pipeline: {raw_path: ""}`},
		{"cleaned overwrites raw", `pipeline: {raw_path: a.csv, cleaned_path: a.csv}`},
		{"scored overwrites cleaned", `pipeline: {cleaned_path: b.csv, scored_path: b.csv}`},
		{"zero top_n", `pipeline: {top_n: 0}`},
		{"empty drop column", `pipeline: {drop: ["Serving Size", " "]}`},
		{"duplicate drop column", `pipeline: {drop: ["Sodium", "Sodium"]}`},
		{"unknown log level", `pipeline: {log_level: chatty}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadStringErr(t, tc.yaml+"\n"); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestLoad_EmptyDropListAllowed(t *testing.T) {
	cfg := loadFromString(t, "pipeline:\n  drop: []\n")
	if len(cfg.Pipeline.Drop) != 0 {
		t.Errorf("drop: got %v, want empty", cfg.Pipeline.Drop)
	}
}

func assertDefaults(t *testing.T, cfg *Config) {
	t.Helper()
	p := cfg.Pipeline
	if p.RawPath != DefaultRawPath {
		t.Errorf("default raw_path: got %q, want %q", p.RawPath, DefaultRawPath)
	}
	if p.CleanedPath != DefaultCleanedPath {
		t.Errorf("default cleaned_path: got %q, want %q", p.CleanedPath, DefaultCleanedPath)
	}
	if p.ScoredPath != DefaultScoredPath {
		t.Errorf("default scored_path: got %q, want %q", p.ScoredPath, DefaultScoredPath)
	}
	if !reflect.DeepEqual(p.Drop, cleaner.DefaultDrop) {
		t.Errorf("default drop: got %v, want %v", p.Drop, cleaner.DefaultDrop)
	}
	if p.TopN != DefaultTopN {
		t.Errorf("default top_n: got %d, want %d", p.TopN, DefaultTopN)
	}
	if p.MetricsPath != "" {
		t.Errorf("default metrics_path: got %q, want empty", p.MetricsPath)
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
