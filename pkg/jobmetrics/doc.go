// Package jobmetrics reads and writes the Prometheus textfile that records the
// outcome of pipeline runs.
//
// The pipeline is a batch job, so it does not serve metrics itself. After each
// successful stage the CLI calls Record, which merges the stage into the
// existing textfile and rewrites it atomically. A node_exporter textfile
// collector or the dashboard (via ReadFile) can then pick it up.
//
// Families written:
//
//	menuscore_stage_rows{stage}
//	menuscore_stage_columns{stage}
//	menuscore_stage_duration_seconds{stage}
//	menuscore_stage_last_success_timestamp_seconds{stage}
//	menuscore_items_by_tier{tier}
//
// Gauge and Encode are also used by the dashboard to serve its own /metrics.
package jobmetrics
