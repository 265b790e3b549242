package rates

import (
	"context"
	"strings"
)

// StaticTable serves exchange rates from a fixed in-memory table keyed
// by currency pair. It ignores the date: the same rate applies to every
// day. Used directly in static-only mode and as the fallback behind the
// live API.
type StaticTable struct {
	pairs map[string]map[string]float64
}

// NewStaticTable returns a table covering the EUR/CHF/USD triangle.
func NewStaticTable() *StaticTable {
	return &StaticTable{
		pairs: map[string]map[string]float64{
			"EUR": {"CHF": 0.97, "USD": 1.08},
			"CHF": {"EUR": 1.03, "USD": 1.12},
			"USD": {"EUR": 0.93, "CHF": 0.89},
		},
	}
}

// Rate implements Provider. Unknown pairs return found=false, never an
// error.
func (t *StaticTable) Rate(_ context.Context, _ string, base, target string) (float64, bool, error) {
	targets, ok := t.pairs[strings.ToUpper(base)]
	if !ok {
		return 0, false, nil
	}
	rate, ok := targets[strings.ToUpper(target)]
	return rate, ok, nil
}
