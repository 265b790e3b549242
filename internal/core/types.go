// Package core implements the currency conversion pipeline: row
// normalization, per-row exchange rate resolution, statistics
// accumulation, and output assembly. This package has no HTTP
// dependencies and can be driven by any frontend.
package core

// Column names required in every uploaded CSV (matched case-insensitively).
const (
	ColumnDate   = "date"
	ColumnAmount = "amount"
)

// Columns appended to every output row.
const (
	ColumnConvertedAmount = "converted_amount"
	ColumnExchangeRate    = "exchange_rate"
)

// RawRow maps a column header to the raw cell value as read from the CSV.
// Values are trimmed during parsing; keys keep their original casing.
type RawRow map[string]string

// OutputRow is a RawRow plus the two conversion columns. Rows that failed
// conversion carry empty strings in both.
type OutputRow map[string]string

// RowDetail is a per-row diagnostic record surfaced in the processing
// summary. RowNumber is 1-based.
type RowDetail struct {
	RowNumber int    `json:"rowNumber"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// Detail status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ProcessingStats aggregates the outcome of one conversion batch.
// Details are ordered by row number.
type ProcessingStats struct {
	TotalRows             int         `json:"totalRows"`
	SuccessfulConversions int         `json:"successfulConversions"`
	FailedConversions     int         `json:"failedConversions"`
	Details               []RowDetail `json:"details"`
}

// BatchResult is the output of a batch conversion with at least one
// successful row. Fields holds the output column order: the original
// header order of the upload followed by converted_amount and
// exchange_rate.
type BatchResult struct {
	Fields []string
	Rows   []OutputRow
	Stats  ProcessingStats
}
