// Package rates resolves historical exchange rates. It provides a live
// client for the exchangerate-api.com history endpoint, a static
// in-memory table, and a Fallback composite that shields callers from
// live lookup failures.
package rates

import "context"

// Provider resolves the exchange rate in effect on a calendar date.
// found is false when no rate exists for the currency pair; err is
// reserved for lookup failures (network, configuration).
type Provider interface {
	Rate(ctx context.Context, isoDate, base, target string) (rate float64, found bool, err error)
}
