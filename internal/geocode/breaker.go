package geocode

import (
	"context"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/metrics"
)

type lookupResult struct {
	point domain.Point
	found bool
}

// Breaker wraps a Lookuper with a circuit breaker so a dead geocoding API
// costs nothing once the circuit opens. A "no match" answer counts as a
// success; only errors count toward tripping.
type Breaker struct {
	next Lookuper
	cb   *gobreaker.CircuitBreaker[lookupResult]
}

// BreakerSettings tunes the breaker. Zero values take defaults.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit. Default: 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before a half-open
	// probe. Default: 30s.
	OpenTimeout time.Duration
}

// NewBreaker wraps next with a circuit breaker named name.
func NewBreaker(name string, next Lookuper, s BreakerSettings, logger *slog.Logger) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[lookupResult](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Breaker{next: next, cb: cb}
}

// Lookup implements Lookuper. When the circuit is open it fails fast with
// gobreaker.ErrOpenState.
func (b *Breaker) Lookup(ctx context.Context, place string) (domain.Point, bool, error) {
	res, err := b.cb.Execute(func() (lookupResult, error) {
		p, found, err := b.next.Lookup(ctx, place)
		return lookupResult{point: p, found: found}, err
	})
	if err != nil {
		return domain.Point{}, false, err
	}
	return res.point, res.found, nil
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
