// Package store holds the scored menu dataset in memory for the dashboard.
//
// store.go loads the scored CSV into an immutable Snapshot, swaps it in under a
// RWMutex and reloads it when the file changes on disk. query.go holds the
// read-side views: filters, KPIs, rankings and category profiles.
package store
