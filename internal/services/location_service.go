package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zshop-storefront-api/internal/cache"
	"zshop-storefront-api/internal/debounce"
	"zshop-storefront-api/internal/models"
)

// LocationAPI is the upstream autocomplete endpoint.
type LocationAPI interface {
	Autocomplete(ctx context.Context, input string) (*models.AutocompleteResponse, error)
}

// LocationService debounces address autocomplete per shopper and caches
// the answers per input.
type LocationService struct {
	api       LocationAPI
	debouncer *debounce.Debouncer[models.AutocompleteResponse]
	answers   *cache.TTLCache[models.AutocompleteResponse]
}

func NewLocationService(api LocationAPI, quiet, ttl, cleanup time.Duration) *LocationService {
	return &LocationService{
		api:       api,
		debouncer: debounce.New[models.AutocompleteResponse](quiet),
		answers:   cache.NewTTLCache[models.AutocompleteResponse]("locations", ttl, cleanup),
	}
}

func (s *LocationService) Close() {
	s.answers.Stop()
}

// Cache exposes the answer cache for stats and metrics.
func (s *LocationService) Cache() *cache.TTLCache[models.AutocompleteResponse] {
	return s.answers
}

// Autocomplete returns predictions for input. sessionKey scopes the
// debounce, so only the shopper's latest keystroke reaches upstream.
func (s *LocationService) Autocomplete(ctx context.Context, sessionKey, input string) (models.AutocompleteResponse, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.AutocompleteResponse{Predictions: []models.LocationPrediction{}, Status: models.StatusZeroResults}, nil
	}
	if cached, ok := s.answers.Get(input); ok {
		return cached, nil
	}

	resp, err := s.debouncer.Do(ctx, sessionKey, func(ctx context.Context) (models.AutocompleteResponse, error) {
		return s.answers.GetOrLoad(input, func() (models.AutocompleteResponse, error) {
			r, err := s.api.Autocomplete(ctx, input)
			if err != nil {
				return models.AutocompleteResponse{}, err
			}
			if r.Predictions == nil {
				r.Predictions = []models.LocationPrediction{}
			}
			return *r, nil
		})
	})
	if errors.Is(err, debounce.ErrSuperseded) {
		return models.AutocompleteResponse{Predictions: []models.LocationPrediction{}, Status: models.StatusSuperseded}, nil
	}
	if err != nil {
		return models.AutocompleteResponse{}, fmt.Errorf("failed to autocomplete %q: %w", input, err)
	}
	return resp, nil
}
