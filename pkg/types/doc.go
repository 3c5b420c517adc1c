// Package types defines the names and score tiers shared by the pipeline and
// the dashboard. The dashboard never imports pipeline code; both sides agree
// on the scored file through the constants declared here.
package types
