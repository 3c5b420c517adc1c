// Package config loads the dashboard configuration from the `dashboard:`
// section of a YAML file. A `pipeline:` key in the same file is ignored.
//
// Config fields:
//   - HTTPPort                      - REST API, charts and WebSocket hub (default 8080)
//   - GRPCPort                      - gRPC health service (default 50051)
//   - ScoredPath                    - scored dataset written by the pipeline
//   - PipelineMetricsPath           - job metrics textfile (optional)
//   - Thresholds.HighProteinGrams   - "high protein" filter (default 20 g)
//   - Thresholds.LowSodiumMg        - "low sodium" filter (default 400 mg)
//   - BroadcastInterval             - WebSocket push period (default 5s)
//   - TopN                          - default length of top lists (default 10)
//
// Load(path) applies defaults, the file (optional) and MENUSCORE_* environment
// overrides, then validates. Watch(ctx, path, onChange) reloads the file on
// change so thresholds and the broadcast interval can be tuned live.
package config
