package core

// csv.go reads uploaded semicolon-delimited CSV files and writes the
// converted output. Uploads are small enough to parse in memory; the
// reader tolerates ragged rows and sloppy quoting, strips a UTF-8 BOM,
// and replaces invalid UTF-8 sequences so one bad byte does not sink
// the whole file.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseUpload parses a semicolon-delimited CSV upload into the ordered
// header and one RawRow per data row. Cell values are trimmed. Fully
// blank rows are dropped; short rows leave trailing columns unset.
func ParseUpload(data []byte) ([]string, []RawRow, error) {
	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRow(record) {
			continue
		}
		row := make(RawRow, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// WriteCSV renders output rows as semicolon-delimited CSV in the given
// field order. Fields missing from a row are written as empty cells.
func WriteCSV(fields []string, rows []OutputRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(fields))
	for _, row := range rows {
		for i, f := range fields {
			record[i] = row[f]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the Unicode
// replacement character. Returns the input unchanged when already valid.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}
	return buf.Bytes()
}

// isEmptyRow reports whether every cell in the record is blank.
func isEmptyRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
