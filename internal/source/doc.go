// Package source reads account records from a delimited text file.
// The delimiter is configurable and column names are either inferred from the
// first row or forced through configuration. Rows are exposed as opaque
// attribute maps; only the identifier column is interpreted here.
package source
