package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/0x-70da/horus-shop/events"
	"github.com/go-monolith/mono"
)

// getProduct handles the get-product service request.
func (m *Module) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	p, err := m.service.Product(ctx, req.ProductID)
	if err != nil {
		return ProductResponse{}, err
	}
	return ProductResponse{Product: p}, nil
}

// getProductBySlug handles the get-product-by-slug service request.
func (m *Module) getProductBySlug(ctx context.Context, req GetProductBySlugRequest, _ *mono.Msg) (ProductResponse, error) {
	p, err := m.service.ProductBySlug(ctx, req.Slug)
	if err != nil {
		return ProductResponse{}, err
	}
	return ProductResponse{Product: p}, nil
}

// listProducts handles the list-products service request.
func (m *Module) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	return m.service.List(ctx, req)
}

// searchProducts handles the search-products service request.
func (m *Module) searchProducts(ctx context.Context, req SearchProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	return m.service.List(ctx, ListProductsRequest{Query: req.Query})
}

// listCategories handles the list-categories service request.
func (m *Module) listCategories(ctx context.Context, _ ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	c, err := m.service.Catalog(ctx)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	return ListCategoriesResponse{Categories: c.Categories}, nil
}

// getCategory handles the get-category service request.
func (m *Module) getCategory(ctx context.Context, req GetCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	c, err := m.service.Catalog(ctx)
	if err != nil {
		return CategoryResponse{}, err
	}
	cat, ok := c.CategoryBySlug(req.Slug)
	if !ok {
		return CategoryResponse{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Slug)
	}
	return CategoryResponse{Category: cat, Products: c.ProductsByCategory(req.Slug)}, nil
}

// listBrands handles the list-brands service request.
func (m *Module) listBrands(ctx context.Context, _ ListBrandsRequest, _ *mono.Msg) (ListBrandsResponse, error) {
	c, err := m.service.Catalog(ctx)
	if err != nil {
		return ListBrandsResponse{}, err
	}
	return ListBrandsResponse{Brands: c.Brands}, nil
}

// listReviews handles the list-reviews service request.
func (m *Module) listReviews(ctx context.Context, req ListReviewsRequest, _ *mono.Msg) (ListReviewsResponse, error) {
	c, err := m.service.Catalog(ctx)
	if err != nil {
		return ListReviewsResponse{}, err
	}
	if _, ok := c.ProductByID(req.ProductID); !ok {
		return ListReviewsResponse{}, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
	}
	return ListReviewsResponse{Reviews: c.ReviewsByProduct(req.ProductID)}, nil
}

// listOrders handles the list-orders service request.
func (m *Module) listOrders(ctx context.Context, req ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	c, err := m.service.Catalog(ctx)
	if err != nil {
		return ListOrdersResponse{}, err
	}
	return ListOrdersResponse{Orders: c.OrdersByUser(req.UserID)}, nil
}

// getOrder handles the get-order service request.
func (m *Module) getOrder(ctx context.Context, req GetOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	c, err := m.service.Catalog(ctx)
	if err != nil {
		return OrderResponse{}, err
	}
	o, ok := c.OrderByID(req.OrderID)
	if !ok || o.UserID != req.UserID {
		return OrderResponse{}, fmt.Errorf("%w: %s", ErrOrderNotFound, req.OrderID)
	}
	return OrderResponse{Order: o}, nil
}

// listCollection handles the list-collection service request.
func (m *Module) listCollection(ctx context.Context, req ListCollectionRequest, _ *mono.Msg) (CollectionResponse, error) {
	return m.service.Collection(ctx, req.Name)
}

// updatePrice handles the update-price service request.
func (m *Module) updatePrice(ctx context.Context, req UpdatePriceRequest, _ *mono.Msg) (UpdatePriceResponse, error) {
	before, after, err := m.service.UpdatePrice(ctx, req.ProductID, req.Price)
	if err != nil {
		return UpdatePriceResponse{}, err
	}

	if m.eventBus != nil {
		event := events.ProductPriceChangedEvent{
			ProductID: after.ID,
			OldPrice:  before.Price,
			NewPrice:  after.Price,
			ChangedAt: m.service.now(),
		}
		if err := events.ProductPriceChangedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[catalog] Warning: failed to publish ProductPriceChanged event for %s: %v", after.ID, err)
		}
	}

	return UpdatePriceResponse{Product: after, OldPrice: before.Price}, nil
}
