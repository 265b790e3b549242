package core

// errors.go defines the error taxonomy for batch conversion.
//
// ValidationError aborts the whole batch and maps to an HTTP 400 in the
// web layer. DateFormatError and AmountFormatError are row-local: they
// are recorded in the processing details and the batch continues.

import "fmt"

// ValidationError indicates the batch as a whole cannot be processed:
// required columns are missing, the upload has no data rows, or zero
// rows converted successfully.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DateFormatError indicates a date cell could not be normalized to an
// ISO calendar date.
type DateFormatError struct {
	Value  string
	Reason string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Value)
}

// AmountFormatError indicates an amount cell did not contain a finite
// number after separator normalization.
type AmountFormatError struct {
	Value string
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("invalid amount format: %s", e.Value)
}
