package geocode

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhbakolia/disaster-response-platform/internal/cache"
	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	apperrors "github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

type fakeClassifier struct {
	reply string
	err   error
	calls int
}

func (f *fakeClassifier) GenerateText(context.Context, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeClassifier) ClassifyImage(context.Context, string, domain.ImagePayload) (string, error) {
	return "", nil
}

func newTestService(classifier *fakeClassifier) *Service {
	clock := clockwork.NewFakeClock()
	c := cache.New(cache.NewInMemoryStore(clock), clock, cache.DefaultTTL)
	return NewService(classifier, c)
}

func TestResolve_ExtractsAndGeocodes(t *testing.T) {
	classifier := &fakeClassifier{reply: "123 Hanover St, Boston"}
	svc := newTestService(classifier)

	res, err := svc.Resolve(context.Background(), "Building collapsed at 123 Hanover St")
	require.NoError(t, err)

	assert.Equal(t, "123 Hanover St, Boston", res.LocationName)
	assert.Equal(t, 37.422, res.Lat)
	assert.Equal(t, -122.084, res.Lng)
}

func TestResolve_CacheHitSkipsClassifier(t *testing.T) {
	classifier := &fakeClassifier{reply: "Summer St"}
	svc := newTestService(classifier)

	_, err := svc.Resolve(context.Background(), "fire on Summer St")
	require.NoError(t, err)
	require.Equal(t, 1, classifier.calls)

	res, err := svc.Resolve(context.Background(), "fire on Summer St")
	require.NoError(t, err)
	assert.Equal(t, "Summer St", res.LocationName)
	assert.Equal(t, 1, classifier.calls, "second resolve must come from cache")
}

func TestResolve_EmptyDescription(t *testing.T) {
	svc := newTestService(&fakeClassifier{})

	_, err := svc.Resolve(context.Background(), "   ")
	require.Error(t, err)

	structured, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.TypeValidation, structured.Type)
}

func TestResolve_NoLocationInText(t *testing.T) {
	classifier := &fakeClassifier{reply: "null"}
	svc := newTestService(classifier)

	_, err := svc.Resolve(context.Background(), "everything is fine here")
	require.Error(t, err)

	structured, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.TypeNotFound, structured.Type)
}

func TestResolve_ClassifierFailure(t *testing.T) {
	classifier := &fakeClassifier{err: apperrors.ExternalError("quota exceeded", nil)}
	svc := newTestService(classifier)

	_, err := svc.Resolve(context.Background(), "fire near the water tower")
	require.Error(t, err)

	structured, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.TypeExternal, structured.Type)
}
