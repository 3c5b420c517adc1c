package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/menuscore/menuscore/pipeline/internal/cleaner"
	"github.com/menuscore/menuscore/pkg/logging"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultRawPath     = "data/menu.csv"
	DefaultCleanedPath = "data/Cleaned_mcd.csv"
	DefaultScoredPath  = "data/Scored_mcd.csv"
	DefaultTopN        = 10
	DefaultLogLevel    = "info"
)

// Config is the top-level pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// PipelineConfig holds the stage paths and options.
type PipelineConfig struct {
	// RawPath is the source menu CSV read by the clean stage.
	RawPath string `yaml:"raw_path" env:"MENUSCORE_RAW_PATH"`

	// CleanedPath is written by the clean stage and read by the score stage.
	CleanedPath string `yaml:"cleaned_path" env:"MENUSCORE_CLEANED_PATH"`

	// ScoredPath is written by the score stage.
	ScoredPath string `yaml:"scored_path" env:"MENUSCORE_SCORED_PATH"`

	// Drop lists the columns removed by the clean stage.
	Drop []string `yaml:"drop" env:"MENUSCORE_DROP" envSeparator:","`

	// TopN is the length of the ranked preview printed after scoring.
	TopN int `yaml:"top_n" env:"MENUSCORE_TOP_N"`

	// MetricsPath, when set, receives a Prometheus textfile after every
	// successful stage.
	MetricsPath string `yaml:"metrics_path" env:"MENUSCORE_METRICS_PATH"`

	// LogLevel is one of debug | info | warn | error.
	LogLevel string `yaml:"log_level" env:"MENUSCORE_LOG_LEVEL"`
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is non-empty) and MENUSCORE_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := env.Parse(&cfg.Pipeline); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			RawPath:     DefaultRawPath,
			CleanedPath: DefaultCleanedPath,
			ScoredPath:  DefaultScoredPath,
			Drop:        append([]string(nil), cleaner.DefaultDrop...),
			TopN:        DefaultTopN,
			LogLevel:    DefaultLogLevel,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	p := cfg.Pipeline
	if p.RawPath == "" {
		return fmt.Errorf("pipeline.raw_path is required")
	}
	if p.CleanedPath == "" {
		return fmt.Errorf("pipeline.cleaned_path is required")
	}
	if p.ScoredPath == "" {
		return fmt.Errorf("pipeline.scored_path is required")
	}
	if p.CleanedPath == p.RawPath {
		return fmt.Errorf("pipeline.cleaned_path must differ from raw_path")
	}
	if p.ScoredPath == p.CleanedPath || p.ScoredPath == p.RawPath {
		return fmt.Errorf("pipeline.scored_path must differ from the stage inputs")
	}
	if p.TopN <= 0 {
		return fmt.Errorf("pipeline.top_n must be positive")
	}

	seen := make(map[string]bool, len(p.Drop))
	for i, col := range p.Drop {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("pipeline.drop[%d]: column name is empty", i)
		}
		if seen[col] {
			return fmt.Errorf("pipeline.drop[%d]: duplicate column %q", i, col)
		}
		seen[col] = true
	}

	if _, err := logging.ParseLevel(p.LogLevel); err != nil {
		return fmt.Errorf("pipeline.log_level: %w", err)
	}
	return nil
}
