// Package resolver turns ordered query candidates into coordinates using a
// cache-first, retrying lookup strategy.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/observability"
)

// Cache is the persistent query→coordinate store consulted before any
// network lookup. A cached query is never re-sent to the geocoder.
type Cache interface {
	Get(query string) (domain.Geo, bool)
	Put(query string, loc domain.Geo)
}

// Geocoder performs one forward lookup. found is false with a nil error when
// the provider simply had no match for the query.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (loc domain.Geo, found bool, err error)
}

// Resolver resolves candidate lists against a cache and a geocoder.
type Resolver struct {
	cache    Cache
	geocoder Geocoder
	retries  int
	delay    time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Resolver. retries is the per-candidate attempt budget; delay
// is slept between attempts through the given clock so tests can run without
// real waits.
func New(cache Cache, geocoder Geocoder, retries int, delay time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	if retries < 1 {
		retries = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{
		cache:    cache,
		geocoder: geocoder,
		retries:  retries,
		delay:    delay,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve tries each candidate in order and returns the first resolution.
// Per candidate: a cache hit returns immediately without touching the
// network or the retry budget; on a miss the geocoder is called up to the
// retry budget, sleeping between attempts. Empty provider results are
// retried the same way as transient errors. Successful lookups are cached
// under the literal candidate string before returning.
//
// ok is false when every candidate exhausted its budget, a normal
// "unresolvable address" outcome, not an error. It is also false when ctx is
// cancelled mid-resolution.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) (loc domain.Geo, ok bool) {
	for _, query := range candidates {
		if cached, hit := r.cache.Get(query); hit {
			r.metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return cached, true
		}
		r.metrics.GeocodeCache.WithLabelValues("miss").Inc()

		for attempt := 1; attempt <= r.retries; attempt++ {
			if ctx.Err() != nil {
				return domain.Geo{}, false
			}

			result, found, err := r.geocoder.Geocode(ctx, query)
			switch {
			case err != nil:
				r.logger.Warn("geocode attempt failed",
					"query", query,
					"attempt", attempt,
					"retries", r.retries,
					"error", err,
				)
			case found:
				r.cache.Put(query, result)
				return result, true
			default:
				r.logger.Debug("no geocode match", "query", query, "attempt", attempt)
			}

			if !r.sleep(ctx) {
				return domain.Geo{}, false
			}
		}
	}

	r.metrics.GeocodeNotFound.Inc()
	return domain.Geo{}, false
}

// sleep waits the configured delay, returning false if ctx is cancelled first.
func (r *Resolver) sleep(ctx context.Context) bool {
	if r.delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-r.clock.After(r.delay):
		return true
	}
}
