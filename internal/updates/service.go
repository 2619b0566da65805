package updates

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/saurabhbakolia/disaster-response-platform/internal/cache"
	"github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

const (
	cacheKey = "official-updates"
	cacheTTL = time.Hour
)

// Service answers official-update requests from cache first, and guards
// the live fetch with a circuit breaker so a flapping upstream does not
// get hammered by every request.
type Service struct {
	fetcher Fetcher
	cache   *cache.Cache
	breaker *gobreaker.CircuitBreaker
}

func NewService(fetcher Fetcher, c *cache.Cache) *Service {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "official-updates",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Service{fetcher: fetcher, cache: c, breaker: breaker}
}

// GetOfficialUpdates returns the cached update list, fetching and
// re-caching when the entry is absent. A fetch failure surfaces as an
// external error; stale-but-cached data keeps being served until expiry.
func (s *Service) GetOfficialUpdates(ctx context.Context) ([]Update, error) {
	var cached []Update
	if s.cache.Get(ctx, cacheKey, &cached) == cache.Hit {
		return cached, nil
	}

	result, err := s.breaker.Execute(func() (any, error) {
		return s.fetcher.FetchOfficialUpdates(ctx)
	})
	if err != nil {
		return nil, errors.ExternalError("failed to fetch official updates", err)
	}

	updates := result.([]Update)
	s.cache.Set(ctx, cacheKey, updates, cacheTTL)
	slog.InfoContext(ctx, "Fetched official updates", "count", len(updates))
	return updates, nil
}
