package core

// pipeline.go orchestrates batch conversion: header validation, parallel
// per-row processing, and the sequential fold of per-row outcomes into
// aggregate statistics.
//
// Rows are independent of each other, so they are processed concurrently
// (a rate lookup may be a network round trip). Outcomes land in a slice
// indexed by row, and counters are only touched in the fold afterwards,
// so no shared state is mutated across goroutines. The output sequence
// and the detail log always preserve original row order.

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultRowWorkers caps concurrent row processing per batch.
const DefaultRowWorkers = 8

// RateSource resolves the historical exchange rate in effect on a
// calendar date. Implementations return found=false when no rate exists
// for the currency pair; err is reserved for lookup failures that could
// not be absorbed by a fallback.
type RateSource interface {
	Rate(ctx context.Context, isoDate, base, target string) (rate float64, found bool, err error)
}

// Pipeline converts batches of raw CSV rows using a RateSource.
type Pipeline struct {
	rates   RateSource
	workers int
}

// NewPipeline creates a conversion pipeline. workers bounds per-batch
// row concurrency; values < 1 fall back to DefaultRowWorkers.
func NewPipeline(rates RateSource, workers int) *Pipeline {
	if workers < 1 {
		workers = DefaultRowWorkers
	}
	return &Pipeline{rates: rates, workers: workers}
}

type rowStatus int

const (
	rowSuccess rowStatus = iota
	rowSkipped
	rowError
)

// rowOutcome is the result of processing a single row, folded into
// ProcessingStats after all rows complete.
type rowOutcome struct {
	status  rowStatus
	message string
	out     OutputRow
}

// Convert runs the batch: validates the header, processes every row
// concurrently, and folds the outcomes in row order. It returns a
// *ValidationError when required columns are missing, the upload has no
// data rows, or zero rows converted (in which case no output is
// produced).
func (p *Pipeline) Convert(ctx context.Context, header []string, rows []RawRow, base, target string) (*BatchResult, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Message: "CSV file contains no data rows"}
	}

	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"Required columns missing in CSV: %s. Please ensure your CSV has columns named 'date' and 'amount' (case insensitive).",
			strings.Join(missing, ", "))}
	}

	outcomes := make([]rowOutcome, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range rows {
		i := i
		g.Go(func() error {
			outcomes[i] = p.processRow(gctx, rows[i], base, target)
			return nil
		})
	}
	g.Wait()

	stats := ProcessingStats{
		TotalRows: len(rows),
		Details:   make([]RowDetail, 0, len(rows)),
	}
	outRows := make([]OutputRow, len(rows))
	for i, oc := range outcomes {
		outRows[i] = oc.out
		switch oc.status {
		case rowSuccess:
			stats.SuccessfulConversions++
			stats.Details = append(stats.Details, RowDetail{RowNumber: i + 1, Status: StatusSuccess})
		case rowError:
			stats.FailedConversions++
			stats.Details = append(stats.Details, RowDetail{RowNumber: i + 1, Status: StatusError, Message: oc.message})
		case rowSkipped:
			// Rows with no date or amount at all count as failed but get
			// no detail entry.
			stats.FailedConversions++
		}
	}

	if stats.SuccessfulConversions == 0 {
		return nil, &ValidationError{Message: "No rows were successfully converted. Please check your CSV format and ensure date and amount values are valid."}
	}

	fields := make([]string, 0, len(header)+2)
	fields = append(fields, header...)
	fields = append(fields, ColumnConvertedAmount, ColumnExchangeRate)

	return &BatchResult{Fields: fields, Rows: outRows, Stats: stats}, nil
}

// processRow normalizes one row and resolves its exchange rate.
// Failures short-circuit in order: date, amount, rate.
func (p *Pipeline) processRow(ctx context.Context, row RawRow, base, target string) rowOutcome {
	out := make(OutputRow, len(row)+2)
	for k, v := range row {
		out[k] = v
	}
	out[ColumnConvertedAmount] = ""
	out[ColumnExchangeRate] = ""

	rawDate := fieldValue(row, ColumnDate)
	rawAmount := fieldValue(row, ColumnAmount)
	if rawDate == "" || rawAmount == "" {
		return rowOutcome{status: rowSkipped, out: out}
	}

	isoDate, err := NormalizeDate(rawDate)
	if err != nil {
		return rowOutcome{status: rowError, message: err.Error(), out: out}
	}

	amount, err := NormalizeAmount(rawAmount)
	if err != nil {
		return rowOutcome{status: rowError, message: err.Error(), out: out}
	}

	rate, found, err := p.rates.Rate(ctx, isoDate, base, target)
	if err != nil {
		return rowOutcome{status: rowError, message: fmt.Sprintf("exchange rate lookup failed: %v", err), out: out}
	}
	if !found {
		return rowOutcome{status: rowError, message: fmt.Sprintf("no exchange rate available for %s/%s on %s", base, target, isoDate), out: out}
	}

	rateDec := decimal.NewFromFloat(rate)
	converted := decimal.NewFromFloat(amount).Mul(rateDec)
	out[ColumnConvertedAmount] = formatComma(converted, 2)
	out[ColumnExchangeRate] = formatComma(rateDec, 4)
	return rowOutcome{status: rowSuccess, out: out}
}

// missingColumns checks the header for the required columns,
// case-insensitively, and returns the names of any that are absent.
func missingColumns(header []string) []string {
	var missing []string
	for _, required := range []string{ColumnDate, ColumnAmount} {
		found := false
		for _, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), required) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	return missing
}

// fieldValue looks up a row value by column name, case-insensitively,
// mirroring the case-insensitive header check.
func fieldValue(row RawRow, name string) string {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// formatComma renders a decimal with a fixed number of places using a
// comma as the decimal separator ("97,00", "0,9700").
func formatComma(d decimal.Decimal, places int32) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}
