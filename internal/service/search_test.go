package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neptune/internal/catalog"
	"neptune/internal/logger"
	"neptune/internal/model"
)

func providerNames(providers []model.ServiceProvider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name
	}
	return names
}

func TestSearchService_FindProviders(t *testing.T) {
	svc := newTestService(t, testProviders())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"strict location and category", "plumbers in Austin", []string{"Austin Plumb"}},
		{"city named in query", "plumber near my Austin home", []string{"Austin Plumb"}},
		{"service text widens category", "leak repair electrician in Austin", []string{"Austin Plumb", "Austin Sparks"}},
		{"broad pass on city", "vet in Austin", []string{"Austin Plumb", "Austin Sparks"}},
		{"broad pass on service word", "grooming in Boston for mobile pets", []string{"Miami Groom"}},
		{"no matches", "roofers in Boston", []string{}},
		{"empty intent matches all", "", []string{"Denver Vet", "Austin Plumb", "Miami Groom", "Austin Sparks", "Denver Pipes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := svc.ExtractIntent(tt.query)
			got := svc.FindProviders(tt.query, intent.Location, intent.Category)
			assert.Equal(t, tt.want, providerNames(got))
		})
	}
}

func TestSearchService_ScoresUseQueryContext(t *testing.T) {
	svc := newTestService(t, testProviders())

	got := svc.FindProviders("leak repair electrician in Austin", "Austin", model.CategoryElectrician)
	require.Len(t, got, 2)
	assert.Equal(t, 8.5, got[0].NeptuneScore) // specialty "leak" in the query
	assert.Equal(t, 7.0, got[1].NeptuneScore)

	got = svc.FindProviders("vet in Austin", "Austin", model.CategoryVeterinarian)
	require.Len(t, got, 2)
	assert.Equal(t, 8.1, got[0].NeptuneScore)
}

func TestSearchService_OrderedByScore(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	svc := newTestService(t, c.Providers())

	for _, q := range []string{"", "plumber", "emergency vet in Denver", "grooming in Miami, FL", "hvac near Chicago"} {
		intent := svc.ExtractIntent(q)
		got := svc.FindProviders(q, intent.Location, intent.Category)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].NeptuneScore, got[i].NeptuneScore, "query %q", q)
		}
	}
}

func TestSearchService_TiesKeepCatalogOrder(t *testing.T) {
	base := testProviders()[0]
	providers := make([]model.ServiceProvider, 0, 3)
	for _, id := range []string{"b", "a", "c"} {
		p := base.Clone()
		p.ID = id
		p.Name = "Twin " + id
		providers = append(providers, p)
	}
	svc := newTestService(t, providers)

	got := svc.FindProviders("plumber in Austin", "Austin", model.CategoryPlumber)
	assert.Equal(t, []string{"Twin b", "Twin a", "Twin c"}, providerNames(got))
}

func TestSearchService_DoesNotMutateCatalog(t *testing.T) {
	cat := newTestCatalog(t, testProviders())
	scorer := NewScorer(DefaultScoringRules())
	svc := NewSearchService(cat, NewIntentExtractor(DefaultIntentRules()), scorer,
		NewSummaryGenerator(scorer, logger.Discard()), logger.Discard())

	got := svc.FindProviders("plumbers in Austin", "Austin", model.CategoryPlumber)
	require.NotEmpty(t, got)
	got[0].Name = "changed"
	got[0].Services[0] = "changed"

	for _, p := range cat.Providers() {
		assert.Zero(t, p.NeptuneScore)
		assert.NotEqual(t, "changed", p.Name)
		assert.NotContains(t, p.Services, "changed")
	}
}

func TestSearchService_Search(t *testing.T) {
	svc := newTestService(t, testProviders())

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "plumbers in Austin under $100"})
	require.NoError(t, err)

	assert.Equal(t, "plumbers in Austin under $100", resp.Query)
	assert.Equal(t, "Austin under $100", resp.Location)
	assert.Equal(t, model.CategoryPlumber, resp.Category)
	require.NotNil(t, resp.MaxPrice)
	assert.Equal(t, 100, *resp.MaxPrice)
	assert.NotEmpty(t, resp.Summary)
	assert.GreaterOrEqual(t, resp.Took, int64(0))
}

func TestSearchService_SearchNoResults(t *testing.T) {
	svc := newTestService(t, testProviders())

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "roofers in Boston"})
	require.NoError(t, err)
	assert.Empty(t, resp.Providers)
	assert.Contains(t, resp.Summary, `"roofers in Boston"`)
}

func TestSearchService_SearchCancelled(t *testing.T) {
	svc := newTestService(t, testProviders())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, &model.SearchRequest{Query: "plumber"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchService_GetProvider(t *testing.T) {
	svc := newTestService(t, testProviders())

	p, ok := svc.GetProvider("2")
	require.True(t, ok)
	assert.Equal(t, "Austin Sparks", p.Name)
	assert.Equal(t, 7.0, p.NeptuneScore)

	_, ok = svc.GetProvider("missing")
	assert.False(t, ok)
}

func TestSearchService_Categories(t *testing.T) {
	svc := newTestService(t, testProviders())

	got := svc.Categories()
	require.Len(t, got, len(model.Categories))

	byCategory := make(map[model.Category]model.CategoryInfo, len(got))
	for _, info := range got {
		byCategory[info.Category] = info
	}
	assert.Equal(t, 2, byCategory[model.CategoryPlumber].Providers)
	assert.Equal(t, 0, byCategory[model.CategoryHVAC].Providers)
	assert.Equal(t, "pet grooming", byCategory[model.CategoryPetGrooming].Label)
	assert.Equal(t, "appliance repair", byCategory[model.CategoryApplianceRepair].Label)
}
