package catalog

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "catalog"

// Service answers catalog queries from an in-memory snapshot of the
// database. The snapshot is rebuilt after every write.
type Service struct {
	repo    *Repository
	load    func(ctx context.Context) (*domain.Catalog, error)
	sfGroup singleflight.Group
	now     func() time.Time

	mu      sync.RWMutex
	current *domain.Catalog
	// gen is bumped by Invalidate. A load started under an older
	// generation is returned to its callers but never installed.
	gen uint64
}

// NewService creates a new catalog service.
func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
		load: repo.LoadCatalog,
		now:  time.Now,
	}
}

// Catalog returns the current snapshot, loading it on first use.
// Concurrent misses share one database read.
func (s *Service) Catalog(ctx context.Context) (*domain.Catalog, error) {
	s.mu.RLock()
	c := s.current
	gen := s.gen
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	v, err, shared := s.sfGroup.Do(catalogKey, func() (any, error) {
		loaded, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		installed := s.gen == gen
		if installed {
			s.current = loaded
		}
		s.mu.Unlock()
		if !installed {
			log.Printf("[catalog] Discarded catalog snapshot invalidated during load")
			return loaded, nil
		}
		log.Printf("[catalog] Loaded catalog snapshot: %d products", len(loaded.Products))
		return loaded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if shared {
		log.Printf("[catalog] Catalog load shared with concurrent request")
	}
	return v.(*domain.Catalog), nil
}

// Invalidate drops the snapshot so the next read reloads it.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.gen++
	s.mu.Unlock()
	s.sfGroup.Forget(catalogKey)
}

// Product returns a product by id.
func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	p, ok := c.ProductByID(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

// ProductBySlug returns a product by slug.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	p, ok := c.ProductBySlug(slug)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}
	return p, nil
}

// List runs search, filter, sort and paging over the catalog.
func (s *Service) List(ctx context.Context, req ListProductsRequest) (ListProductsResponse, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return ListProductsResponse{}, err
	}

	sortOpt, err := domain.ParseSortOption(req.Sort)
	if err != nil {
		return ListProductsResponse{}, err
	}

	products := c.Products
	if req.Query != "" {
		products = domain.Search(products, req.Query)
	}
	products = domain.ApplyListing(products, filtersFrom(req), sortOpt)

	total := len(products)
	offset := min(max(req.Offset, 0), total)
	end := total
	if req.Limit > 0 {
		end = min(offset+req.Limit, total)
	}

	return ListProductsResponse{
		Products: products[offset:end],
		Total:    total,
		Offset:   offset,
		Limit:    req.Limit,
	}, nil
}

func filtersFrom(req ListProductsRequest) domain.Filters {
	f := domain.Filters{
		Categories:    req.Categories,
		Subcategories: req.Subcategories,
		Brands:        req.Brands,
		Tags:          req.Tags,
		MinRating:     req.MinRating,
		InStockOnly:   req.InStockOnly,
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		rng := domain.PriceRange{Min: 0, Max: math.MaxFloat64}
		if req.MinPrice != nil {
			rng.Min = *req.MinPrice
		}
		if req.MaxPrice != nil {
			rng.Max = *req.MaxPrice
		}
		f.PriceRange = &rng
	}
	return f
}

// Collection returns the members of a named collection.
func (s *Service) Collection(ctx context.Context, name string) (CollectionResponse, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return CollectionResponse{}, err
	}

	resp := CollectionResponse{Name: name}
	switch name {
	case CollectionFeatured:
		resp.Products = c.Featured()
	case CollectionBestSellers:
		resp.Products = c.BestSellers()
	case CollectionNewArrivals:
		resp.Products = c.NewArrivals()
	case CollectionFlashDeals:
		resp.FlashDeals = c.ActiveFlashDeals(s.now())
	case CollectionBanners:
		resp.Banners = c.ActiveBanners(s.now())
	default:
		return CollectionResponse{}, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return resp, nil
}

// UpdatePrice changes a product price and refreshes the snapshot.
func (s *Service) UpdatePrice(ctx context.Context, id string, price float64) (before, after domain.Product, err error) {
	if price < 0 {
		return domain.Product{}, domain.Product{}, ErrInvalidPrice
	}
	before, after, err = s.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		return domain.Product{}, domain.Product{}, err
	}
	s.Invalidate()
	log.Printf("[catalog] Price of %s changed: %.2f -> %.2f", id, before.Price, after.Price)
	return before, after, nil
}
