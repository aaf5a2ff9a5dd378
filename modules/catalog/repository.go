package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
	"gorm.io/gorm"
)

// Repository provides access to catalog storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&ProductRecord{}, &DocumentRecord{})
}

// CountProducts returns the number of stored products.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ProductRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// Seed writes every collection of f in one transaction.
func (r *Repository) Seed(ctx context.Context, f *domain.Fixture) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, p := range f.Products {
			rec := ProductRecord{
				ID:       p.ID,
				Slug:     p.Slug,
				Category: p.Category,
				Position: i,
				Price:    p.Price,
				Product:  p,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
			}
		}

		docs := make([]DocumentRecord, 0)
		add := func(kind, id string, pos int, v any) error {
			body, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
			}
			docs = append(docs, DocumentRecord{Kind: kind, ID: id, Position: pos, Body: string(body)})
			return nil
		}
		for i, c := range f.Categories {
			if err := add(kindCategory, c.ID, i, c); err != nil {
				return err
			}
		}
		for i, b := range f.Brands {
			if err := add(kindBrand, b.ID, i, b); err != nil {
				return err
			}
		}
		for i, rv := range f.Reviews {
			if err := add(kindReview, rv.ID, i, rv); err != nil {
				return err
			}
		}
		for i, o := range f.Orders {
			if err := add(kindOrder, o.ID, i, o); err != nil {
				return err
			}
		}
		for i, b := range f.Banners {
			if err := add(kindBanner, b.ID, i, b); err != nil {
				return err
			}
		}
		for i, d := range f.FlashDeals {
			if err := add(kindFlashDeal, d.ID, i, d); err != nil {
				return err
			}
		}
		if len(docs) == 0 {
			return nil
		}
		if err := tx.Create(&docs).Error; err != nil {
			return fmt.Errorf("failed to seed catalog documents: %w", err)
		}
		return nil
	})
}

// Products returns every product in catalog order.
func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	var recs []ProductRecord
	if err := r.db.WithContext(ctx).Order("position").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	products := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, rec.Product)
	}
	return products, nil
}

// FindProduct retrieves a product by id.
func (r *Repository) FindProduct(ctx context.Context, id string) (domain.Product, error) {
	var rec ProductRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}
	return rec.Product, nil
}

// UpdatePrice sets a product's price and returns the product before and
// after the change.
func (r *Repository) UpdatePrice(ctx context.Context, id string, price float64) (domain.Product, domain.Product, error) {
	var before, after domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec ProductRecord
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to find product: %w", err)
		}
		before = rec.Product

		rec.Price = price
		rec.Product.Price = price
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("failed to update product price: %w", err)
		}
		after = rec.Product
		return nil
	})
	if err != nil {
		return domain.Product{}, domain.Product{}, err
	}
	return before, after, nil
}

// LoadCatalog reads every collection and builds the queryable Catalog.
func (r *Repository) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	products, err := r.Products(ctx)
	if err != nil {
		return nil, err
	}

	var docs []DocumentRecord
	if err := r.db.WithContext(ctx).Order("kind, position").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find catalog documents: %w", err)
	}

	var f domain.Fixture
	for _, d := range docs {
		var err error
		switch d.Kind {
		case kindCategory:
			f.Categories, err = appendDecoded(f.Categories, d)
		case kindBrand:
			f.Brands, err = appendDecoded(f.Brands, d)
		case kindReview:
			f.Reviews, err = appendDecoded(f.Reviews, d)
		case kindOrder:
			f.Orders, err = appendDecoded(f.Orders, d)
		case kindBanner:
			f.Banners, err = appendDecoded(f.Banners, d)
		case kindFlashDeal:
			f.FlashDeals, err = appendDecoded(f.FlashDeals, d)
		}
		if err != nil {
			return nil, err
		}
	}
	f.Products = products
	return f.Catalog(), nil
}

func appendDecoded[T any](list []T, d DocumentRecord) ([]T, error) {
	var v T
	if err := json.Unmarshal([]byte(d.Body), &v); err != nil {
		return list, fmt.Errorf("failed to decode %s %s: %w", d.Kind, d.ID, err)
	}
	return append(list, v), nil
}
