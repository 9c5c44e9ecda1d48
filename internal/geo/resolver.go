package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/metrics"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

const component = "geocoding"

// Resolver turns free text into a Coordinate and never fails: empty input,
// unknown places, and provider errors all resolve to Unresolved.
// It is safe for concurrent use.
type Resolver struct {
	geocoder    Geocoder
	cache       *ristretto.Cache[string, Coordinate]
	cacheSize   int64
	ttl         time.Duration
	negativeTTL time.Duration
	timeout     time.Duration
	maxRetries  uint64
	retryDelay  time.Duration
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache enables caching of up to size locations. Successful lookups live
// for ttl and no-match results for negativeTTL; a zero TTL never expires.
func WithCache(size int64, ttl, negativeTTL time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cacheSize = size
		r.ttl = ttl
		r.negativeTTL = negativeTTL
	}
}

// WithRetry retries transient provider failures up to maxRetries times with
// exponential backoff starting at delay.
func WithRetry(maxRetries int, delay time.Duration) ResolverOption {
	return func(r *Resolver) {
		if maxRetries >= 0 {
			r.maxRetries = uint64(maxRetries)
		}
		if delay > 0 {
			r.retryDelay = delay
		}
	}
}

// WithTimeout bounds each provider attempt.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// WithMetrics records provider calls and cache lookups.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver wraps g. A nil g resolves everything to Unresolved.
func NewResolver(g Geocoder, opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		geocoder:   g,
		timeout:    5 * time.Second,
		maxRetries: 2,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = utils.OrNop(r.logger)
	if r.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, Coordinate]{
			NumCounters:        r.cacheSize * 10,
			MaxCost:            r.cacheSize,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create geocode cache: %w", err)
		}
		r.cache = cache
	}
	return r, nil
}

// Resolve returns the coordinate for location, or Unresolved.
func (r *Resolver) Resolve(ctx context.Context, location string) Coordinate {
	query := strings.TrimSpace(location)
	if query == "" || r.geocoder == nil {
		return Unresolved
	}
	key := normalizePlace(query)
	if r.cache != nil {
		if c, ok := r.cache.Get(key); ok {
			r.metrics.CacheLookup(component, true)
			return c
		}
		r.metrics.CacheLookup(component, false)
	}

	coord, err := r.lookup(ctx, query)
	switch {
	case err == nil:
		r.metrics.ProviderCall(component, r.geocoder.Name(), metrics.OutcomeOK)
		r.store(key, coord, r.ttl)
		return coord
	case errors.Is(err, ErrNoMatch):
		r.metrics.ProviderCall(component, r.geocoder.Name(), metrics.OutcomeNoMatch)
		r.logger.Debug("location not found", zap.String("location", query))
		r.store(key, Unresolved, r.negativeTTL)
		return Unresolved
	default:
		r.metrics.ProviderCall(component, r.geocoder.Name(), metrics.OutcomeFailed)
		r.logger.Warn("geocoding failed, treating location as unresolved",
			zap.String("provider", r.geocoder.Name()),
			zap.String("location", query),
			zap.Error(err))
		return Unresolved
	}
}

func (r *Resolver) lookup(ctx context.Context, query string) (Coordinate, error) {
	var coord Coordinate
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		c, err := r.geocoder.Geocode(attemptCtx, query)
		if err != nil {
			if ctx.Err() == nil && isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		coord = c
		return nil
	})
	return coord, err
}

func (r *Resolver) store(key string, c Coordinate, ttl time.Duration) {
	if r.cache == nil {
		return
	}
	if ttl > 0 {
		r.cache.SetWithTTL(key, c, 1, ttl)
	} else {
		r.cache.Set(key, c, 1)
	}
	r.cache.Wait()
}

// Close releases the cache.
func (r *Resolver) Close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
