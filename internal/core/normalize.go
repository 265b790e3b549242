package core

// normalize.go converts raw date and amount cells into canonical forms.
//
// Uploaded files come from European banking exports, so the normalizers
// handle the messy reality of that data:
//   - DD.MM.YY and DD/MM/YY dates alongside ISO YYYY-MM-DD
//   - comma as decimal separator, dot as thousands separator
//   - trailing junk after numbers (unit suffixes, currency codes)

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// isoDateLayout is the canonical form every date normalizes to.
const isoDateLayout = "2006-01-02"

// NormalizeDate converts a raw date cell to YYYY-MM-DD.
//
// Strings containing '-' are assumed to already be ISO formatted and
// pass through unchanged; they are only checked by the final calendar
// construction. DD.MM.YY and DD/MM/YY forms are reordered, zero-padded,
// and 2-digit years expanded into the 2000s. Anything else is rejected.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	var formatted string
	switch {
	case strings.Contains(s, "-"):
		formatted = s

	case strings.ContainsAny(s, "./"):
		parts := strings.Split(strings.ReplaceAll(s, "/", "."), ".")
		if len(parts) != 3 {
			return "", &DateFormatError{Value: s, Reason: "invalid date parts"}
		}
		day, month, year := parts[0], parts[1], parts[2]

		d, errD := strconv.Atoi(day)
		m, errM := strconv.Atoi(month)
		if errD != nil || errM != nil || d <= 0 || d > 31 || m <= 0 || m > 12 {
			return "", &DateFormatError{Value: s, Reason: "invalid date parts"}
		}
		if len(year) == 2 {
			year = "20" + year
		}
		formatted = fmt.Sprintf("%s-%02d-%02d", year, m, d)

	default:
		return "", &DateFormatError{Value: s, Reason: "unsupported date format"}
	}

	// Calendar-aware check: rejects Feb 31 and malformed pass-throughs.
	if _, err := time.Parse(isoDateLayout, formatted); err != nil {
		return "", &DateFormatError{Value: formatted, Reason: "invalid date"}
	}

	return formatted, nil
}

// NormalizeAmount converts a raw amount cell to a float64.
//
// When the cell contains a comma, a dot appearing before it is treated
// as a thousands separator ("1.234,56"); otherwise the comma alone is
// the decimal separator ("1234,56"). Parsing is lenient: the longest
// numeric prefix is taken and trailing non-numeric content ignored.
func NormalizeAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	if comma := strings.Index(s, ","); comma >= 0 {
		if dot := strings.Index(s, "."); dot >= 0 && dot < comma {
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	f, ok := parseFloatPrefix(s)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &AmountFormatError{Value: raw}
	}
	return f, nil
}

// parseFloatPrefix parses the longest leading substring of s that forms
// a valid decimal number, optionally with sign and exponent. Returns
// false if s has no numeric prefix.
func parseFloatPrefix(s string) (float64, bool) {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := false
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
		digits = true
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, false
	}
	end := i

	// Exponent is only consumed when complete ("1e5", not "1e").
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := false
		for j < n && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits = true
		}
		if expDigits {
			end = j
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
