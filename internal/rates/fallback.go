package rates

import (
	"context"
	"log/slog"
)

// Fallback tries a primary provider and falls back to a secondary on
// any error, including a missing API key. Only the secondary's error
// surfaces, so a broken live lookup degrades to static rates instead of
// failing rows.
type Fallback struct {
	primary   Provider
	secondary Provider
}

// NewFallback composes primary over secondary.
func NewFallback(primary, secondary Provider) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Rate implements Provider.
func (f *Fallback) Rate(ctx context.Context, isoDate, base, target string) (float64, bool, error) {
	rate, found, err := f.primary.Rate(ctx, isoDate, base, target)
	if err == nil {
		return rate, found, nil
	}

	slog.Warn("live rate lookup failed, using static table",
		"date", isoDate,
		"base", base,
		"target", target,
		"error", err,
	)
	return f.secondary.Rate(ctx, isoDate, base, target)
}
