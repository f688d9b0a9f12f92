package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"neptune/internal/catalog"
	"neptune/internal/logger"
	"neptune/internal/model"
)

func testProviders() []model.ServiceProvider {
	return []model.ServiceProvider{
		{
			ID: "1", Name: "Austin Plumb", Category: model.CategoryPlumber, Location: "Austin, TX",
			Rating: 4.8, ReviewCount: 300, PriceRange: "$45-65/hr", Availability: "Same-day service",
			Services: model.JSONArray{"Drain cleaning", "Leak repair"}, Specialties: model.JSONArray{"leak"},
		},
		{
			ID: "2", Name: "Austin Sparks", Category: model.CategoryElectrician, Location: "Austin, TX",
			Rating: 4.5, ReviewCount: 100, PriceRange: "$75-110/hr", Availability: "next-day",
			Services: model.JSONArray{"Panel upgrades"}, Specialties: model.JSONArray{"ev charger"},
		},
		{
			ID: "3", Name: "Denver Vet", Category: model.CategoryVeterinarian, Location: "Denver, CO",
			Rating: 4.9, ReviewCount: 700, PriceRange: "$75-180/visit", Availability: "24/7 emergency care",
			Services: model.JSONArray{"Wellness exams"}, Specialties: model.JSONArray{"exotic"},
		},
		{
			ID: "4", Name: "Denver Pipes", Category: model.CategoryPlumber, Location: "Denver, CO",
			Rating: 4.0, ReviewCount: 50, PriceRange: "$90-140/hr", Availability: "Weekdays",
			Services: model.JSONArray{"Water heater repair"}, Specialties: model.JSONArray{"tankless"},
		},
		{
			ID: "5", Name: "Miami Groom", Category: model.CategoryPetGrooming, Location: "Miami, FL",
			Rating: 4.5, ReviewCount: 140, PriceRange: "$40-80/session", Availability: "next-day",
			Services: model.JSONArray{"Mobile grooming"}, Specialties: model.JSONArray{"small dogs"},
		},
	}
}

func newTestCatalog(t *testing.T, providers []model.ServiceProvider) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(providers)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T, providers []model.ServiceProvider, opts ...SummaryOption) *SearchService {
	t.Helper()
	scorer := NewScorer(DefaultScoringRules())
	log := logger.Discard()
	return NewSearchService(
		newTestCatalog(t, providers),
		NewIntentExtractor(DefaultIntentRules()),
		scorer,
		NewSummaryGenerator(scorer, log, opts...),
		log,
	)
}

// fakeGenerator is an in-memory TextGenerator.
type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memoryCache is an in-memory SummaryCache.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.sets++
	return nil
}
