package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/catalog.yaml
var defaultFixture []byte

// Fixture is the on-disk shape of a catalog dataset.
type Fixture struct {
	Categories []Category    `yaml:"categories"`
	Brands     []Brand       `yaml:"brands"`
	Products   []Product     `yaml:"products"`
	Reviews    []Review      `yaml:"reviews"`
	Orders     []Order       `yaml:"orders"`
	Banners    []PromoBanner `yaml:"banners"`
	FlashDeals []FlashDeal   `yaml:"flashDeals"`
}

// LoadFixture parses the embedded storefront dataset.
func LoadFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixtureFile parses a dataset from a YAML file.
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a YAML dataset. Product ids and slugs
// must be unique and every product must have a non-negative stock.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Catalog builds the queryable catalog from the fixture.
func (f *Fixture) Catalog() *Catalog {
	return New(f.Products, f.Categories, f.Brands, f.Reviews, f.Orders, f.Banners, f.FlashDeals)
}

func (f *Fixture) validate() error {
	ids := make(map[string]bool, len(f.Products))
	slugs := make(map[string]bool, len(f.Products))
	for _, p := range f.Products {
		if p.ID == "" || p.Slug == "" {
			return fmt.Errorf("%w: product %q is missing id or slug", ErrInvalidFixture, p.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate product id %s", ErrInvalidFixture, p.ID)
		}
		if slugs[p.Slug] {
			return fmt.Errorf("%w: duplicate product slug %s", ErrInvalidFixture, p.Slug)
		}
		if p.Stock < 0 {
			return fmt.Errorf("%w: product %s has negative stock", ErrInvalidFixture, p.ID)
		}
		variantIDs := make(map[string]bool, len(p.Variants))
		for _, v := range p.Variants {
			if variantIDs[v.ID] {
				return fmt.Errorf("%w: duplicate variant id %s on %s", ErrInvalidFixture, v.ID, p.ID)
			}
			variantIDs[v.ID] = true
		}
		ids[p.ID] = true
		slugs[p.Slug] = true
	}
	return nil
}
