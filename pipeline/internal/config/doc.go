// Package config loads the pipeline configuration.
//
// Top-level types:
//   - Config{Pipeline} - full config tree parsed from YAML
//   - PipelineConfig - raw_path, cleaned_path, scored_path, drop [], top_n,
//     metrics_path, log_level
//
// Load(path) applies defaults (data/menu.csv → data/Cleaned_mcd.csv →
// data/Scored_mcd.csv, drop "Serving Size" and "Calories from Fat", top 10),
// reads the YAML file when path is non-empty, applies MENUSCORE_* environment
// overrides and validates the result. The file is optional: Load("") returns
// the defaults with environment overrides.
package config
