// Package app assembles the search service from configuration. Both the HTTP
// server and the CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"neptune/internal/catalog"
	"neptune/internal/config"
	"neptune/internal/repository"
	"neptune/internal/service"
)

// App holds the wired search service and the resources it owns.
type App struct {
	SearchService *service.SearchService
	Catalog       *catalog.Catalog

	closers []func() error
}

// New loads the catalog, picks the text generator and connects the optional
// summary cache. Missing credentials or an unreachable cache degrade to the
// deterministic summary instead of failing startup.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{}

	cat, err := a.loadCatalog(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = cat
	log.WithFields(logrus.Fields{
		"source":    cfg.Catalog.Source,
		"providers": cat.Len(),
	}).Info("catalog loaded")

	scorer := service.NewScorer(service.DefaultScoringRules())
	opts := []service.SummaryOption{service.WithGenerationTimeout(cfg.Summary.Timeout)}

	generator := a.textGenerator(ctx, cfg, log)
	if generator != nil {
		opts = append(opts, service.WithTextGenerator(generator))
		if cache := a.summaryCache(ctx, cfg, log); cache != nil {
			opts = append(opts, service.WithSummaryCache(cache, cfg.Summary.CacheTTL))
		}
	}

	a.SearchService = service.NewSearchService(
		cat,
		service.NewIntentExtractor(service.DefaultIntentRules()),
		scorer,
		service.NewSummaryGenerator(scorer, log, opts...),
		log,
	)
	return a, nil
}

// Close releases every resource opened by New.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) loadCatalog(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*catalog.Catalog, error) {
	var loader catalog.Loader
	if cfg.Catalog.Source == "postgres" {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// The catalog is read once; the pool is not needed afterwards.
		defer repo.Close()
		log.Info("connected to PostgreSQL database")
		loader = repo
	}

	return catalog.Load(ctx, cfg.Catalog.Source, cfg.Catalog.File, loader)
}

func (a *App) textGenerator(ctx context.Context, cfg *config.Config, log *logrus.Logger) service.TextGenerator {
	switch cfg.Summary.Provider {
	case "gemini":
		client, err := service.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			log.WithError(err).Warn("Gemini is unavailable, summaries will use the fallback")
			return nil
		}
		a.closers = append(a.closers, client.Close)
		log.WithField("model", cfg.Gemini.Model).Info("Gemini summary generator initialized")
		return client
	case "openai":
		if !cfg.OpenAI.Enabled {
			log.Warn("OpenAI is disabled, set OPENAI_API_KEY to enable generated summaries")
			return nil
		}
		log.WithFields(logrus.Fields{
			"api_base": cfg.OpenAI.APIBase,
			"model":    cfg.OpenAI.ChatModel,
		}).Info("OpenAI summary generator initialized")
		return service.NewOpenAIClient(&cfg.OpenAI)
	default:
		log.Info("generated summaries disabled")
		return nil
	}
}

func (a *App) summaryCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) service.SummaryCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	cache, err := service.NewRedisSummaryCache(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("summary cache unavailable, continuing without it")
		return nil
	}
	a.closers = append(a.closers, cache.Close)
	log.WithField("addr", cfg.Redis.Addr).Info("summary cache connected")
	return cache
}
