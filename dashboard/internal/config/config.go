package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for the dashboard configuration.
const (
	DefaultHTTPPort          = 8080
	DefaultGRPCPort          = 50051
	DefaultScoredPath        = "data/Scored_mcd.csv"
	DefaultHighProteinGrams  = 20.0
	DefaultLowSodiumMg       = 400.0
	DefaultBroadcastInterval = 5 * time.Second
	DefaultTopN              = 10
)

// Config holds the dashboard configuration parsed from the `dashboard:`
// section of the config file.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// DashboardConfig holds all dashboard settings.
type DashboardConfig struct {
	// HTTPPort is the port the REST API, charts and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port" env:"MENUSCORE_HTTP_PORT"`

	// GRPCPort is the port the gRPC health service listens on.
	GRPCPort int `yaml:"grpc_port" env:"MENUSCORE_GRPC_PORT"`

	// ScoredPath is the scored dataset. The dashboard only reads it.
	ScoredPath string `yaml:"scored_path" env:"MENUSCORE_SCORED_PATH"`

	// PipelineMetricsPath is the job metrics textfile written by the pipeline.
	// Empty disables /api/v1/pipeline.
	PipelineMetricsPath string `yaml:"pipeline_metrics_path" env:"MENUSCORE_METRICS_PATH"`

	// Thresholds configures the nutrient filters.
	Thresholds Thresholds `yaml:"thresholds"`

	// BroadcastInterval is how often the WebSocket hub pushes a snapshot.
	BroadcastInterval time.Duration `yaml:"broadcast_interval" env:"MENUSCORE_BROADCAST_INTERVAL"`

	// TopN is the default length of top-item lists and charts.
	TopN int `yaml:"top_n" env:"MENUSCORE_TOP_N"`
}

// Thresholds configures the nutrient filters.
type Thresholds struct {
	// HighProteinGrams is the minimum protein for the "high protein" filter.
	HighProteinGrams float64 `yaml:"high_protein_grams" env:"MENUSCORE_HIGH_PROTEIN_GRAMS"`

	// LowSodiumMg is the maximum sodium for the "low sodium" filter.
	LowSodiumMg float64 `yaml:"low_sodium_mg" env:"MENUSCORE_LOW_SODIUM_MG"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Dashboard: DashboardConfig{
			HTTPPort:   DefaultHTTPPort,
			GRPCPort:   DefaultGRPCPort,
			ScoredPath: DefaultScoredPath,
			Thresholds: Thresholds{
				HighProteinGrams: DefaultHighProteinGrams,
				LowSodiumMg:      DefaultLowSodiumMg,
			},
			BroadcastInterval: DefaultBroadcastInterval,
			TopN:              DefaultTopN,
		},
	}
}

// Load reads the config file at path (skipped when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("dashboard config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("dashboard config: parse yaml: %w", err)
		}
	}

	if err := env.Parse(&cfg.Dashboard); err != nil {
		return nil, fmt.Errorf("dashboard config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dashboard config: %w", err)
	}
	return cfg, nil
}

// Validate checks structural constraints. It is exported so flag overrides
// applied after Load can be checked again.
func (c *Config) Validate() error {
	d := c.Dashboard
	if d.HTTPPort <= 0 || d.HTTPPort > 65535 {
		return fmt.Errorf("dashboard.http_port %d is out of range [1, 65535]", d.HTTPPort)
	}
	if d.GRPCPort <= 0 || d.GRPCPort > 65535 {
		return fmt.Errorf("dashboard.grpc_port %d is out of range [1, 65535]", d.GRPCPort)
	}
	if d.HTTPPort == d.GRPCPort {
		return fmt.Errorf("dashboard.http_port and grpc_port must differ")
	}
	if d.ScoredPath == "" {
		return fmt.Errorf("dashboard.scored_path is required")
	}
	if d.Thresholds.HighProteinGrams < 0 {
		return fmt.Errorf("dashboard.thresholds.high_protein_grams must not be negative")
	}
	if d.Thresholds.LowSodiumMg < 0 {
		return fmt.Errorf("dashboard.thresholds.low_sodium_mg must not be negative")
	}
	if d.BroadcastInterval <= 0 {
		return fmt.Errorf("dashboard.broadcast_interval must be positive")
	}
	if d.TopN <= 0 {
		return fmt.Errorf("dashboard.top_n must be positive")
	}
	return nil
}
