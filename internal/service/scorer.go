package service

import (
	"math"
	"strings"

	"neptune/internal/model"
)

// Weights of the five Neptune Score factors. They must sum to 1.0.
type Weights struct {
	Rating         float64
	Reviews        float64
	Availability   float64
	Price          float64
	Specialization float64
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Rating + w.Reviews + w.Availability + w.Price + w.Specialization
}

// AvailabilityTier scores providers whose availability text contains any marker.
type AvailabilityTier struct {
	Name    string
	Markers []string // case-sensitive substrings
	Score   float64
}

// PriceBracket scores providers whose lowercased price range contains any prefix.
type PriceBracket struct {
	Prefixes []string
	Score    float64
}

// ScoringRules is the fixed configuration of the Neptune Score.
type ScoringRules struct {
	Weights           Weights
	AvailabilityTiers []AvailabilityTier // checked in order, first match wins
	PriceBrackets     []PriceBracket     // checked in order, first match wins
	BaselineScore     float64
	SpecialtyScore    float64
	ServiceScore      float64
	MaxReviewScore    float64
}

// Availability tier names.
const (
	TierEmergency = "emergency"
	TierSameDay   = "same-day"
	TierNextDay   = "next-day"
	TierStandard  = "standard"
)

// DefaultScoringRules returns the production weights, tiers and brackets.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		Weights: Weights{
			Rating:         0.30,
			Reviews:        0.20,
			Availability:   0.25,
			Price:          0.15,
			Specialization: 0.10,
		},
		AvailabilityTiers: []AvailabilityTier{
			{Name: TierEmergency, Markers: []string{"24/7", "emergency"}, Score: 10},
			{Name: TierSameDay, Markers: []string{"same-day", "Same-day"}, Score: 8.5},
			{Name: TierNextDay, Markers: []string{"next-day", "Next-day"}, Score: 7},
		},
		PriceBrackets: []PriceBracket{
			{Prefixes: []string{"$40-", "$45-", "$50-"}, Score: 9},
			{Prefixes: []string{"$60-", "$65-"}, Score: 8},
			{Prefixes: []string{"$75-", "$80-"}, Score: 7},
			{Prefixes: []string{"$90-", "$95-"}, Score: 6},
		},
		BaselineScore:  5,
		SpecialtyScore: 9,
		ServiceScore:   7,
		MaxReviewScore: 10,
	}
}

// ScoreBreakdown holds the unweighted sub-scores of one provider.
type ScoreBreakdown struct {
	Rating         float64 `json:"rating"`
	Reviews        float64 `json:"reviews"`
	Availability   float64 `json:"availability"`
	Price          float64 `json:"price"`
	Specialization float64 `json:"specialization"`
}

// Scorer computes the Neptune Score. It holds no mutable state.
type Scorer struct {
	rules ScoringRules
}

// NewScorer creates a scorer over the given rules
func NewScorer(rules ScoringRules) *Scorer {
	return &Scorer{rules: rules}
}

// Score returns the weighted 0-10 score rounded to one decimal. Specialization
// matching only runs when both query and category are non-empty.
func (s *Scorer) Score(p model.ServiceProvider, query string, category model.Category) float64 {
	b := s.Breakdown(p, query, category)
	w := s.rules.Weights

	total := b.Rating*w.Rating +
		b.Reviews*w.Reviews +
		b.Availability*w.Availability +
		b.Price*w.Price +
		b.Specialization*w.Specialization

	return roundTenth(clamp(total, 0, 10))
}

// Breakdown computes each sub-score independently.
func (s *Scorer) Breakdown(p model.ServiceProvider, query string, category model.Category) ScoreBreakdown {
	return ScoreBreakdown{
		Rating:         (p.Rating / 5) * 10,
		Reviews:        math.Min(math.Log10(float64(p.ReviewCount)+1)*2.5, s.rules.MaxReviewScore),
		Availability:   s.availabilityScore(p.Availability),
		Price:          s.priceScore(p.PriceRange),
		Specialization: s.specializationScore(p, query, category),
	}
}

// AvailabilityTier classifies free-text availability into a tier name.
func (s *Scorer) AvailabilityTier(availability string) string {
	for _, tier := range s.rules.AvailabilityTiers {
		if containsAny(availability, tier.Markers) {
			return tier.Name
		}
	}
	return TierStandard
}

func (s *Scorer) availabilityScore(availability string) float64 {
	for _, tier := range s.rules.AvailabilityTiers {
		if containsAny(availability, tier.Markers) {
			return tier.Score
		}
	}
	return s.rules.BaselineScore
}

func (s *Scorer) priceScore(priceRange string) float64 {
	lower := strings.ToLower(priceRange)
	for _, bracket := range s.rules.PriceBrackets {
		if containsAny(lower, bracket.Prefixes) {
			return bracket.Score
		}
	}
	return s.rules.BaselineScore
}

func (s *Scorer) specializationScore(p model.ServiceProvider, query string, category model.Category) float64 {
	if query == "" || category == "" {
		return s.rules.BaselineScore
	}
	queryLower := strings.ToLower(query)
	if anyContainedIn(queryLower, p.Specialties) {
		return s.rules.SpecialtyScore
	}
	if anyContainedIn(queryLower, p.Services) {
		return s.rules.ServiceScore
	}
	return s.rules.BaselineScore
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// anyContainedIn reports whether any term, lowercased, is a substring of text.
func anyContainedIn(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
