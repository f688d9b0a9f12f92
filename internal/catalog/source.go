package catalog

import (
	"context"
	"fmt"

	"neptune/internal/model"
)

// Loader fetches provider records from an external store once, at startup.
type Loader interface {
	ListProviders(ctx context.Context) ([]model.ServiceProvider, error)
}

// Load builds the catalog from the named source: embedded, file or postgres.
func Load(ctx context.Context, source, file string, loader Loader) (*Catalog, error) {
	switch source {
	case "", "embedded":
		return Default()
	case "file":
		return LoadFile(file)
	case "postgres":
		if loader == nil {
			return nil, fmt.Errorf("postgres catalog source requires a database loader")
		}
		providers, err := loader.ListProviders(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load providers: %w", err)
		}
		return New(providers)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}
