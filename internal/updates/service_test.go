package updates

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhbakolia/disaster-response-platform/internal/cache"
	apperrors "github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

type fakeFetcher struct {
	updates []Update
	err     error
	calls   int
}

func (f *fakeFetcher) FetchOfficialUpdates(context.Context) ([]Update, error) {
	f.calls++
	return f.updates, f.err
}

func newTestService(fetcher Fetcher) (*Service, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	c := cache.New(cache.NewInMemoryStore(clock), clock, cache.DefaultTTL)
	return NewService(fetcher, c), clock
}

func sampleUpdates() []Update {
	return []Update{
		{Title: "FEMA Responds to Severe Flooding", Link: "https://www.fema.gov/press-release/1", Date: "2025-08-01"},
		{Title: "Disaster Assistance Available", Link: "https://www.fema.gov/press-release/2", Date: "2025-08-02"},
	}
}

func TestGetOfficialUpdates_FetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{updates: sampleUpdates()}
	svc, _ := newTestService(fetcher)

	got, err := svc.GetOfficialUpdates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleUpdates(), got)
	assert.Equal(t, 1, fetcher.calls)

	// Second call is served from cache.
	got, err = svc.GetOfficialUpdates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleUpdates(), got)
	assert.Equal(t, 1, fetcher.calls)
}

func TestGetOfficialUpdates_RefetchesAfterExpiry(t *testing.T) {
	fetcher := &fakeFetcher{updates: sampleUpdates()}
	svc, clock := newTestService(fetcher)

	_, err := svc.GetOfficialUpdates(context.Background())
	require.NoError(t, err)

	clock.Advance(cacheTTL + 1)

	_, err = svc.GetOfficialUpdates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGetOfficialUpdates_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	svc, _ := newTestService(fetcher)

	_, err := svc.GetOfficialUpdates(context.Background())
	require.Error(t, err)

	structured, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.TypeExternal, structured.Type)
}

func TestGetOfficialUpdates_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	svc, _ := newTestService(fetcher)

	for i := 0; i < 5; i++ {
		_, err := svc.GetOfficialUpdates(context.Background())
		require.Error(t, err)
	}
	require.Equal(t, 5, fetcher.calls)

	// Breaker is open now; the fetcher must not be touched again.
	_, err := svc.GetOfficialUpdates(context.Background())
	require.Error(t, err)
	assert.Equal(t, 5, fetcher.calls)
}
