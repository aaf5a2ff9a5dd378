package catalog

import (
	"fmt"
	"slices"
)

// SortOption selects the ordering of a product listing.
type SortOption string

// Supported listing orders.
const (
	SortPopularity SortOption = "popularity"
	SortNewest     SortOption = "newest"
	SortPriceLow   SortOption = "price-low"
	SortPriceHigh  SortOption = "price-high"
	SortRating     SortOption = "rating"
)

// ParseSortOption validates a sort key. The empty string selects popularity.
func ParseSortOption(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case "":
		return SortPopularity, nil
	case SortPopularity, SortNewest, SortPriceLow, SortPriceHigh, SortRating:
		return opt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Filters is the listing filter specification. Dimensions combine with AND;
// values inside a multi-select dimension combine with OR. Empty dimensions
// do not filter.
type Filters struct {
	Categories    []string    `json:"categories,omitempty"`
	Subcategories []string    `json:"subcategories,omitempty"`
	Brands        []string    `json:"brands,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	PriceRange    *PriceRange `json:"priceRange,omitempty"`
	MinRating     *float64    `json:"minRating,omitempty"`
	InStockOnly   bool        `json:"inStockOnly,omitempty"`
}

// Match reports whether p passes every active filter dimension.
func (f Filters) Match(p Product) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Subcategories) > 0 && !slices.Contains(f.Subcategories, p.Subcategory) {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(p.Tags, func(t string) bool { return slices.Contains(f.Tags, t) }) {
		return false
	}
	if f.PriceRange != nil && !f.PriceRange.Contains(p.Price) {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.InStockOnly && !p.InStock() {
		return false
	}
	return true
}

// Filter returns the products matching f in their original order.
func Filter(products []Product, f Filters) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			result = append(result, p)
		}
	}
	return result
}

// Sort stable-sorts products in place by the given option. Ties keep their
// incoming order.
func Sort(products []Product, opt SortOption) {
	slices.SortStableFunc(products, comparator(opt))
}

// ApplyListing filters then sorts a copy of products. The input is never
// reordered.
func ApplyListing(products []Product, f Filters, opt SortOption) []Product {
	result := Filter(products, f)
	Sort(result, opt)
	return result
}

func comparator(opt SortOption) func(a, b Product) int {
	switch opt {
	case SortNewest:
		return func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortPriceLow:
		return func(a, b Product) int { return compareFloat(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b Product) int { return compareFloat(b.Price, a.Price) }
	case SortRating:
		return func(a, b Product) int { return compareFloat(b.Rating, a.Rating) }
	default:
		return func(a, b Product) int { return b.ReviewCount - a.ReviewCount }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
