package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"neptune/internal/model"
)

// promptTopProviders is how many providers are described to the text generator.
const promptTopProviders = 3

// SummaryGenerator produces the natural-language summary of a search. It tries
// the optional TextGenerator once and falls back to a deterministic summary on
// any failure.
type SummaryGenerator struct {
	generator TextGenerator // nil means always use the fallback
	cache     SummaryCache  // optional
	cacheTTL  time.Duration
	timeout   time.Duration
	scorer    *Scorer
	log       *logrus.Logger
}

// SummaryOption configures a SummaryGenerator
type SummaryOption func(*SummaryGenerator)

// WithTextGenerator enables generated summaries
func WithTextGenerator(g TextGenerator) SummaryOption {
	return func(s *SummaryGenerator) {
		s.generator = g
	}
}

// WithSummaryCache caches generated summaries for ttl
func WithSummaryCache(c SummaryCache, ttl time.Duration) SummaryOption {
	return func(s *SummaryGenerator) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithGenerationTimeout bounds the single generation attempt
func WithGenerationTimeout(d time.Duration) SummaryOption {
	return func(s *SummaryGenerator) {
		s.timeout = d
	}
}

// NewSummaryGenerator creates a summary generator. The scorer supplies the
// availability tier classification.
func NewSummaryGenerator(scorer *Scorer, log *logrus.Logger, opts ...SummaryOption) *SummaryGenerator {
	s := &SummaryGenerator{
		scorer:  scorer,
		log:     log,
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize never returns an error; external failures select the fallback.
func (s *SummaryGenerator) Summarize(ctx context.Context, intent model.SearchIntent, providers []model.ServiceProvider) string {
	if s.generator == nil {
		return s.FallbackSummary(intent, providers)
	}

	prompt := s.BuildPrompt(intent, providers)
	key := promptKey(prompt)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			return cached
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.WithError(err).Warn("summary cache read failed")
		}
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(genCtx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: empty text", ErrServiceUnavailable)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"provider": s.generator.Name(),
			"error":    err.Error(),
		}).Warn("summary generation failed, using fallback")
		return s.FallbackSummary(intent, providers)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("summary cache write failed")
		}
	}

	return text
}

// BuildPrompt embeds the query, result count and the top providers.
func (s *SummaryGenerator) BuildPrompt(intent model.SearchIntent, providers []model.ServiceProvider) string {
	var sb strings.Builder

	sb.WriteString("You are Neptune AI, an expert assistant for local service recommendations.\n")
	sb.WriteString("Analyze the user's query and the search results to provide a helpful, concise summary.\n")
	sb.WriteString("Focus on key insights about the providers found, pricing trends, and recommendations.\n")
	sb.WriteString("Keep your response under 150 words and be conversational but professional.\n\n")

	fmt.Fprintf(&sb, "User Query: \"%s\"\n\n", intent.OriginalQuery)
	fmt.Fprintf(&sb, "Search Results Found: %d providers\n", len(providers))

	if len(providers) > 0 {
		sb.WriteString("\nTop Results:\n")
		top := providers
		if len(top) > promptTopProviders {
			top = top[:promptTopProviders]
		}
		for _, p := range top {
			fmt.Fprintf(&sb, "- %s (Neptune Score: %s/10, Rating: %s/5, Price: %s)\n",
				p.Name, formatNumber(p.NeptuneScore), formatNumber(p.Rating), p.PriceRange)
		}

		location := intent.Location
		if location == "" {
			location = "Various locations"
		}
		category := string(intent.Category)
		if category == "" {
			category = "Multiple categories"
		}
		fmt.Fprintf(&sb, "\nLocation Focus: %s\n", location)
		fmt.Fprintf(&sb, "Service Category: %s\n", category)
	} else {
		sb.WriteString("No specific providers found for this query.\n")
	}

	sb.WriteString("\nProvide a helpful summary and recommendation for the user.")
	return sb.String()
}

// FallbackSummary is the deterministic summary used whenever generation is
// unavailable.
//
// The price spread reports the last and first entries of the de-duplicated
// price ranges in result order, not a numeric minimum and maximum.
func (s *SummaryGenerator) FallbackSummary(intent model.SearchIntent, providers []model.ServiceProvider) string {
	if len(providers) == 0 {
		return fmt.Sprintf("No service providers found matching \"%s\". Try broadening your search terms, "+
			"checking the spelling of your location, or searching for related services. "+
			"For example, try \"plumbers in [your city]\" or \"appliance repair near me\".", intent.OriginalQuery)
	}

	top := providers[0]

	var total float64
	priceRanges := make([]string, 0, len(providers))
	seen := make(map[string]bool, len(providers))
	for _, p := range providers {
		total += p.NeptuneScore
		if !seen[p.PriceRange] {
			seen[p.PriceRange] = true
			priceRanges = append(priceRanges, p.PriceRange)
		}
	}
	avgScore := total / float64(len(providers))

	label := "service"
	if intent.Category != "" {
		label = categoryLabel(intent.Category)
	}
	where := ""
	if intent.Location != "" {
		where = " in " + intent.Location
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d %s providers%s.\n\n", len(providers), label, where)
	fmt.Fprintf(&sb, "🏆 **Top Recommendation**: %s leads with a Neptune Score of %s/10 and %s/5 stars from %d reviews.\n\n",
		top.Name, formatNumber(top.NeptuneScore), formatNumber(top.Rating), top.ReviewCount)
	fmt.Fprintf(&sb, "💰 **Pricing**: Options range from %s to %s, with an average Neptune Score of %.1f/10.\n\n",
		priceRanges[len(priceRanges)-1], priceRanges[0], roundTenth(avgScore))
	fmt.Fprintf(&sb, "⚡ **Availability**: %s.", s.availabilityMessage(providers))

	return sb.String()
}

// availabilityMessage reports the best tier offered by any provider.
func (s *SummaryGenerator) availabilityMessage(providers []model.ServiceProvider) string {
	hasSameDay := false
	for _, p := range providers {
		switch s.scorer.AvailabilityTier(p.Availability) {
		case TierEmergency:
			return "Emergency services available"
		case TierSameDay:
			hasSameDay = true
		}
	}
	if hasSameDay {
		return "Same-day service options available"
	}
	return "Standard scheduling available"
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// formatNumber prints a float without trailing zeros (9 rather than 9.0).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
