// Package scorer implements the second pipeline stage: it reads the cleaned
// dataset, scores every item with compute.Compute and writes the dataset back
// out with a "Health Score" column appended.
//
// Scores are written with exactly two decimals. An input that already carries
// a score column has it replaced, so scoring is idempotent.
package scorer
