package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neptune/internal/model"
)

func validProvider(id string) model.ServiceProvider {
	return model.ServiceProvider{
		ID:           id,
		Name:         "Provider " + id,
		Category:     model.CategoryPlumber,
		Location:     "Austin, TX",
		Rating:       4.5,
		ReviewCount:  10,
		PriceRange:   "$45-65/hr",
		Services:     model.JSONArray{"Drain cleaning"},
		Availability: "24/7",
		Specialties:  model.JSONArray{"drain"},
	}
}

func TestDefault_LoadsEmbeddedDataset(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)

	counts := c.CountByCategory()
	for _, cat := range model.Categories {
		assert.Greater(t, counts[cat], 0, "category %s has no providers", cat)
	}

	for _, p := range c.Providers() {
		assert.True(t, p.Category.IsValid(), "provider %s", p.ID)
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.Zero(t, p.NeptuneScore)
	}
}

func TestNew_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.ServiceProvider)
	}{
		{name: "missing id", mutate: func(p *model.ServiceProvider) { p.ID = "" }},
		{name: "rating above 5", mutate: func(p *model.ServiceProvider) { p.Rating = 5.1 }},
		{name: "negative rating", mutate: func(p *model.ServiceProvider) { p.Rating = -1 }},
		{name: "negative reviews", mutate: func(p *model.ServiceProvider) { p.ReviewCount = -3 }},
		{name: "unknown category", mutate: func(p *model.ServiceProvider) { p.Category = "roofer" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProvider("1")
			tt.mutate(&p)
			_, err := New([]model.ServiceProvider{p})
			assert.ErrorIs(t, err, ErrInvalidProvider)
		})
	}
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := New([]model.ServiceProvider{validProvider("1"), validProvider("1")})
	assert.ErrorIs(t, err, ErrInvalidProvider)
}

func TestProviders_ReturnsIsolatedCopies(t *testing.T) {
	c, err := New([]model.ServiceProvider{validProvider("1"), validProvider("2")})
	require.NoError(t, err)

	first := c.Providers()
	first[0].NeptuneScore = 9.9
	first[0].Services[0] = "mutated"
	first[1].Name = "mutated"

	second := c.Providers()
	assert.Zero(t, second[0].NeptuneScore)
	assert.Equal(t, "Drain cleaning", second[0].Services[0])
	assert.Equal(t, "Provider 2", second[1].Name)
	assert.Equal(t, "1", second[0].ID, "catalog order must be preserved")
}

func TestGet(t *testing.T) {
	c, err := New([]model.ServiceProvider{validProvider("a")})
	require.NoError(t, err)

	p, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "Provider a", p.Name)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	doc := `
- id: x1
  name: Test Vet
  category: veterinarian
  location: Denver, CO
  rating: 4.2
  reviewCount: 12
  priceRange: "$60-90/visit"
  services: [Wellness exams]
  availability: next-day
  specialties: [cats]
`
	c, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	p, _ := c.Get("x1")
	assert.Equal(t, model.CategoryVeterinarian, p.Category)
	assert.Equal(t, "denver", p.City())
	assert.Nil(t, p.Website)
}

func TestLoad_Sources(t *testing.T) {
	ctx := context.Background()

	c, err := Load(ctx, "embedded", "", nil)
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {id: f1, name: F, category: hvac, location: \"Miami, FL\", rating: 3}\n"), 0o600))
	c, err = Load(ctx, "file", path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	c, err = Load(ctx, "postgres", "", fakeLoader{providers: []model.ServiceProvider{validProvider("db1")}})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(ctx, "postgres", "", fakeLoader{err: errors.New("connection refused")})
	assert.Error(t, err)

	_, err = Load(ctx, "postgres", "", nil)
	assert.Error(t, err)

	_, err = Load(ctx, "s3", "", nil)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

type fakeLoader struct {
	providers []model.ServiceProvider
	err       error
}

func (f fakeLoader) ListProviders(context.Context) ([]model.ServiceProvider, error) {
	return f.providers, f.err
}
