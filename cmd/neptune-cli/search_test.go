package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neptune/internal/model"
)

func TestPrintSearch(t *testing.T) {
	maxPrice := 80
	resp := &model.SearchResponse{
		Query:    "plumber in Austin under $80",
		Location: "Austin under $80",
		Category: model.CategoryPlumber,
		MaxPrice: &maxPrice,
		Providers: []model.ServiceProvider{
			{Name: "Austin Plumb", Category: model.CategoryPlumber, Location: "Austin, TX",
				Rating: 4.8, ReviewCount: 300, PriceRange: "$45-65/hr", Availability: "Same-day", NeptuneScore: 8.1},
		},
		Summary: "Found 1 plumber providers in Austin under $80.",
	}

	var buf bytes.Buffer
	require.NoError(t, printSearch(&buf, resp))

	out := buf.String()
	assert.Contains(t, out, "Category: plumber")
	assert.Contains(t, out, "Under:    $80")
	assert.Contains(t, out, "8.1")
	assert.Contains(t, out, "Austin Plumb")
	assert.Contains(t, out, "4.8 (300)")
	assert.Contains(t, out, "Found 1 plumber providers")
}

func TestPrintSearch_NoProviders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSearch(&buf, &model.SearchResponse{Query: "roofers", Summary: "No service providers found"}))

	assert.NotContains(t, buf.String(), "SCORE")
	assert.NotContains(t, buf.String(), "Location:")
	assert.Contains(t, buf.String(), "No service providers found")
}
