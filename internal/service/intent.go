package service

import (
	"regexp"
	"strconv"
	"strings"

	"neptune/internal/model"
)

// CategoryKeyword maps a lowercase keyword to its canonical category.
type CategoryKeyword struct {
	Keyword  string
	Category model.Category
}

// IntentRules is the fixed configuration used by the IntentExtractor.
// Order matters everywhere: the first matching rule wins.
type IntentRules struct {
	LocationPatterns []*regexp.Regexp // first capture group is the location
	CategoryKeywords []CategoryKeyword
	PricePattern     *regexp.Regexp // first capture group is the digit run
}

// DefaultIntentRules returns the production keyword tables.
func DefaultIntentRules() IntentRules {
	return IntentRules{
		LocationPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)in\s+([^,]+(?:,\s*[A-Z]{2})?)`),
			regexp.MustCompile(`(?i)near\s+([^,]+)`),
			regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*,\s*[A-Z]{2})`),
			regexp.MustCompile(`(?i)(San Francisco|Austin|Chicago|Miami|Denver|Seattle|New York|Los Angeles)`),
		},
		CategoryKeywords: []CategoryKeyword{
			{"plumber", model.CategoryPlumber},
			{"plumbing", model.CategoryPlumber},
			{"dishwasher", model.CategoryApplianceRepair},
			{"appliance", model.CategoryApplianceRepair},
			{"electrician", model.CategoryElectrician},
			{"electrical", model.CategoryElectrician},
			{"vet", model.CategoryVeterinarian},
			{"veterinarian", model.CategoryVeterinarian},
			{"hvac", model.CategoryHVAC},
			{"heating", model.CategoryHVAC},
			{"cooling", model.CategoryHVAC},
			{"grooming", model.CategoryPetGrooming},
			{"groomer", model.CategoryPetGrooming},
		},
		PricePattern: regexp.MustCompile(`(?i)under\s*\$?(\d+)`),
	}
}

// IntentExtractor turns a free-text query into a structured SearchIntent.
// It is pure and safe for concurrent use.
type IntentExtractor struct {
	rules IntentRules
}

// NewIntentExtractor creates an extractor over the given rules
func NewIntentExtractor(rules IntentRules) *IntentExtractor {
	return &IntentExtractor{rules: rules}
}

// Extract never fails; anything it cannot find is left empty.
func (e *IntentExtractor) Extract(query string) model.SearchIntent {
	return model.SearchIntent{
		Location:      e.extractLocation(query),
		Category:      e.extractCategory(query),
		MaxPrice:      e.extractMaxPrice(query),
		OriginalQuery: query,
	}
}

func (e *IntentExtractor) extractLocation(query string) string {
	for _, pattern := range e.rules.LocationPatterns {
		if m := pattern.FindStringSubmatch(query); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractCategory scans keywords in order; the first keyword contained in the
// query decides, even if a later keyword would be a better fit.
func (e *IntentExtractor) extractCategory(query string) model.Category {
	queryLower := strings.ToLower(query)
	for _, kw := range e.rules.CategoryKeywords {
		if strings.Contains(queryLower, kw.Keyword) {
			return kw.Category
		}
	}
	return ""
}

func (e *IntentExtractor) extractMaxPrice(query string) *int {
	if e.rules.PricePattern == nil {
		return nil
	}
	m := e.rules.PricePattern.FindStringSubmatch(query)
	if len(m) < 2 {
		return nil
	}
	price, err := strconv.Atoi(m[1])
	if err != nil {
		// Digit runs too long for an int are treated as no ceiling.
		return nil
	}
	return &price
}
