// Package geocode resolves free-text incident descriptions into
// coordinates: the classifier extracts the most specific location mention,
// a (mock) geocoder maps it to lat/lng, and results are cached.
package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saurabhbakolia/disaster-response-platform/internal/cache"
	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	"github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

const (
	cacheKeyPrefix = "geocode:"
	cacheTTL       = time.Hour
)

const extractionPrompt = `From the following text, extract the most specific physical location or address mentioned.
The location could be a street address, a landmark, a neighborhood, or cross-streets.
Only return the location text itself, with no extra explanation or labels.
If no specific location is mentioned, return "null".

Text: %q
Location:`

// Resolution is a geocoded location extracted from a description.
type Resolution struct {
	LocationName string  `json:"location_name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// Service extracts and geocodes locations, caching resolved descriptions.
type Service struct {
	classifier domain.Classifier
	cache      *cache.Cache
}

func NewService(classifier domain.Classifier, c *cache.Cache) *Service {
	return &Service{classifier: classifier, cache: c}
}

// Resolve turns a free-text description into coordinates. A cache hit skips
// the classifier entirely; cache trouble just means the slow path runs.
func (s *Service) Resolve(ctx context.Context, description string) (*Resolution, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.ValidationError("description is required")
	}

	cacheKey := cacheKeyPrefix + description
	var cached Resolution
	if s.cache.Get(ctx, cacheKey, &cached) == cache.Hit {
		return &cached, nil
	}

	location, err := s.extractLocation(ctx, description)
	if err != nil {
		return nil, err
	}

	lat, lng, err := s.geocodeLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	resolution := &Resolution{LocationName: location, Lat: lat, Lng: lng}
	s.cache.Set(ctx, cacheKey, resolution, cacheTTL)
	return resolution, nil
}

// extractLocation asks the classifier for the most specific location
// mention; a literal "null" reply means the text names no place.
func (s *Service) extractLocation(ctx context.Context, description string) (string, error) {
	reply, err := s.classifier.GenerateText(ctx, fmt.Sprintf(extractionPrompt, description))
	if err != nil {
		if _, ok := errors.AsError(err); ok {
			return "", err
		}
		return "", errors.ExternalError("failed to analyze location description", err)
	}

	location := strings.TrimSpace(reply)
	if location == "" || strings.EqualFold(location, "null") {
		return "", errors.NotFoundError("no location found in description")
	}
	return location, nil
}

// geocodeLocation is a mock: geocoding accuracy is out of scope, so it
// returns fixed coordinates the way the upstream demo service does.
func (s *Service) geocodeLocation(ctx context.Context, location string) (lat, lng float64, err error) {
	if location == "" {
		return 0, 0, errors.ValidationError("location string is required for geocoding")
	}
	slog.DebugContext(ctx, "Geocoding (mock)", "location", location)
	return 37.422, -122.084, nil
}
