package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"neptune/internal/catalog"
	"neptune/internal/model"
)

// SearchService handles search business logic: intent extraction, catalog
// filtering, scoring and summarization.
type SearchService struct {
	catalog    *catalog.Catalog
	intent     *IntentExtractor
	scorer     *Scorer
	summarizer *SummaryGenerator
	log        *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	cat *catalog.Catalog,
	intentExtractor *IntentExtractor,
	scorer *Scorer,
	summarizer *SummaryGenerator,
	log *logrus.Logger,
) *SearchService {
	return &SearchService{
		catalog:    cat,
		intent:     intentExtractor,
		scorer:     scorer,
		summarizer: summarizer,
		log:        log,
	}
}

// Search performs a complete search with intent extraction, ranking and summary
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	intent := s.intent.Extract(req.Query)
	providers := s.FindProviders(req.Query, intent.Location, intent.Category)
	summary := s.summarizer.Summarize(ctx, intent, providers)

	took := time.Since(startTime).Milliseconds()

	fields := logrus.Fields{
		"query":    req.Query,
		"location": intent.Location,
		"category": intent.Category,
		"results":  len(providers),
		"took_ms":  took,
	}
	if intent.MaxPrice != nil {
		fields["max_price"] = *intent.MaxPrice
	}
	s.log.WithFields(fields).Info("search completed")

	return &model.SearchResponse{
		Providers: providers,
		Summary:   summary,
		Query:     req.Query,
		Location:  intent.Location,
		Category:  intent.Category,
		MaxPrice:  intent.MaxPrice,
		Took:      took,
	}, nil
}

// ExtractIntent exposes the intent extractor on its own.
func (s *SearchService) ExtractIntent(query string) model.SearchIntent {
	return s.intent.Extract(query)
}

// FindProviders filters the catalog and returns freshly scored copies sorted
// by descending Neptune Score. Equal scores keep catalog order.
//
// A strict pass matches location and category. Only when it yields nothing, a
// looser pass matches the provider's city or the first word of any service
// against the query text. maxPrice is not applied here.
func (s *SearchService) FindProviders(query, location string, category model.Category) []model.ServiceProvider {
	queryLower := strings.ToLower(query)
	all := s.catalog.Providers()

	candidates := make([]model.ServiceProvider, 0, len(all))
	for _, p := range all {
		if matchesLocation(p, queryLower, location) && matchesCategory(p, queryLower, category) {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		for _, p := range all {
			if matchesBroadly(p, queryLower) {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) > 0 {
			s.log.WithFields(logrus.Fields{
				"query":   query,
				"results": len(candidates),
			}).Debug("strict pass empty, using broad match")
		}
	}

	for i := range candidates {
		candidates[i].NeptuneScore = s.scorer.Score(candidates[i], query, category)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].NeptuneScore > candidates[j].NeptuneScore
	})

	return candidates
}

// GetProvider returns a catalog entry scored without query context.
func (s *SearchService) GetProvider(id string) (*model.ServiceProvider, bool) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return nil, false
	}
	p.NeptuneScore = s.scorer.Score(p, "", "")
	return &p, true
}

// Categories lists the category enumeration with catalog counts.
func (s *SearchService) Categories() []model.CategoryInfo {
	counts := s.catalog.CountByCategory()
	out := make([]model.CategoryInfo, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, model.CategoryInfo{
			Category:  c,
			Label:     categoryLabel(c),
			Providers: counts[c],
		})
	}
	return out
}

func matchesLocation(p model.ServiceProvider, queryLower, location string) bool {
	return location == "" ||
		strings.Contains(strings.ToLower(p.Location), strings.ToLower(location)) ||
		strings.Contains(queryLower, p.City())
}

func matchesCategory(p model.ServiceProvider, queryLower string, category model.Category) bool {
	return category == "" ||
		p.Category == category ||
		anyContainedIn(queryLower, p.Services) ||
		strings.Contains(queryLower, categoryLabel(p.Category))
}

func matchesBroadly(p model.ServiceProvider, queryLower string) bool {
	if strings.Contains(queryLower, p.City()) {
		return true
	}
	for _, service := range p.Services {
		firstWord, _, _ := strings.Cut(strings.ToLower(service), " ")
		if strings.Contains(queryLower, firstWord) {
			return true
		}
	}
	return false
}

// categoryLabel replaces the first hyphen with a space ("pet-grooming" -> "pet grooming").
func categoryLabel(c model.Category) string {
	return strings.Replace(string(c), "-", " ", 1)
}
