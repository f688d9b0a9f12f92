// Package catalog holds the read-only provider dataset searched by the engine.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"neptune/internal/model"
)

var (
	// ErrInvalidProvider is returned when a catalog record fails validation.
	ErrInvalidProvider = errors.New("invalid provider record")
	// ErrUnknownSource is returned for an unsupported catalog source name.
	ErrUnknownSource = errors.New("unknown catalog source")
)

//go:embed data/providers.yaml
var defaultProviders []byte

// Catalog is an immutable, ordered collection of providers. Reads hand out
// deep copies so no caller can mutate shared state.
type Catalog struct {
	providers []model.ServiceProvider
	byID      map[string]int
}

// New validates the records and builds a catalog preserving their order.
func New(providers []model.ServiceProvider) (*Catalog, error) {
	validate := newValidator()

	c := &Catalog{
		providers: make([]model.ServiceProvider, 0, len(providers)),
		byID:      make(map[string]int, len(providers)),
	}
	for i, p := range providers {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: record %d (id %q): %v", ErrInvalidProvider, i, p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidProvider, p.ID)
		}
		p.NeptuneScore = 0
		c.byID[p.ID] = len(c.providers)
		c.providers = append(c.providers, p.Clone())
	}
	return c, nil
}

// Default returns the embedded dataset.
func Default() (*Catalog, error) {
	return LoadYAML(bytes.NewReader(defaultProviders))
}

// LoadYAML decodes a YAML list of providers.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var providers []model.ServiceProvider
	if err := yaml.NewDecoder(r).Decode(&providers); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(providers)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// Len returns the number of providers.
func (c *Catalog) Len() int {
	return len(c.providers)
}

// Providers returns copies of all providers in catalog order.
func (c *Catalog) Providers() []model.ServiceProvider {
	out := make([]model.ServiceProvider, len(c.providers))
	for i, p := range c.providers {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a copy of the provider with the given id.
func (c *Catalog) Get(id string) (model.ServiceProvider, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.ServiceProvider{}, false
	}
	return c.providers[i].Clone(), true
}

// CountByCategory returns how many providers belong to each category.
func (c *Catalog) CountByCategory() map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, p := range c.providers {
		counts[p.Category]++
	}
	return counts
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return model.Category(fl.Field().String()).IsValid()
	})
	return v
}
