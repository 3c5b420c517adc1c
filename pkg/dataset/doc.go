// Package dataset reads and writes the menu nutrition CSV files and decodes
// them into typed records.
//
// Table is an ordered, string-typed view of a CSV file (header + rows) backed
// by a gota DataFrame. Cells are never reinterpreted, so a table read and
// written again keeps every value as it was.
//
// DecodeItems turns a Table into []MenuItem, checking at load time that the
// identity and nutrient columns exist and that every nutrient cell is either a
// number or a missing marker (empty, NA, NaN, N/A). DecodeScored does the same
// for a scored file and also requires the "Health Score" column.
//
// Errors: ErrNotFound (wrapped with the path) when an input file does not
// exist, *SchemaError when a required column is absent or a cell is invalid.
package dataset
