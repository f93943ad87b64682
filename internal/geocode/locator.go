package geocode

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/metrics"
)

// Locator adapts a Lookuper to the fail-open contract the stop service
// needs: a bounded lookup that yields coordinates or nil, never an error.
// Misses and failures are logged differently so operators can tell a
// bad place name from a broken API.
type Locator struct {
	lookup  Lookuper
	timeout time.Duration
	logger  *slog.Logger
}

// NewLocator constructs a Locator. timeout bounds each lookup including
// its retry; zero means no extra bound beyond the caller's context.
func NewLocator(lookup Lookuper, timeout time.Duration, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{lookup: lookup, timeout: timeout, logger: logger}
}

// Locate returns the coordinates of place, or nil.
func (l *Locator) Locate(ctx context.Context, place string) *domain.Point {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	p, found, err := l.lookup.Lookup(ctx, place)
	switch {
	case err != nil:
		metrics.GeocodeLookups.WithLabelValues(metrics.OutcomeError).Inc()
		l.logger.WarnContext(ctx, "geocode: lookup failed", "place", place, "error", err)
		return nil
	case !found:
		metrics.GeocodeLookups.WithLabelValues(metrics.OutcomeMiss).Inc()
		l.logger.DebugContext(ctx, "geocode: no match", "place", place)
		return nil
	default:
		metrics.GeocodeLookups.WithLabelValues(metrics.OutcomeHit).Inc()
		return &p
	}
}
