// Package cleaner implements the first pipeline stage: it loads the raw menu
// CSV, removes a fixed set of columns and writes the result to a new file.
//
// Every other cell is written back byte-for-byte in the original row order, so
// cleaning the same input twice produces identical files. A drop column that
// is absent from the input is a schema mismatch and stops the stage before
// anything is written.
package cleaner
