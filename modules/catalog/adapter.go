package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// catalogAdapter implements CatalogPort over request-reply services.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a CatalogPort backed by the catalog module's
// service container.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

// GetProduct retrieves a product by id.
func (a *catalogAdapter) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	req := GetProductRequest{ProductID: productID}
	var resp ProductResponse
	if err := callService(ctx, a.container, "get-product", &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// GetProductBySlug retrieves a product by slug.
func (a *catalogAdapter) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	req := GetProductBySlugRequest{Slug: slug}
	var resp ProductResponse
	if err := callService(ctx, a.container, "get-product-by-slug", &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// ListProducts returns a filtered, sorted page of products.
func (a *catalogAdapter) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	var resp ListProductsResponse
	if err := callService(ctx, a.container, "list-products", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchProducts returns products matching a free-text query.
func (a *catalogAdapter) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	req := SearchProductsRequest{Query: query}
	var resp ListProductsResponse
	if err := callService(ctx, a.container, "search-products", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ListCategories returns every category.
func (a *catalogAdapter) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp ListCategoriesResponse
	if err := callService(ctx, a.container, "list-categories", &ListCategoriesRequest{}, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// GetCategory returns a category and its products.
func (a *catalogAdapter) GetCategory(ctx context.Context, slug string) (*CategoryResponse, error) {
	req := GetCategoryRequest{Slug: slug}
	var resp CategoryResponse
	if err := callService(ctx, a.container, "get-category", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBrands returns every brand.
func (a *catalogAdapter) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var resp ListBrandsResponse
	if err := callService(ctx, a.container, "list-brands", &ListBrandsRequest{}, &resp); err != nil {
		return nil, err
	}
	return resp.Brands, nil
}

// ListReviews returns the reviews of a product.
func (a *catalogAdapter) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	req := ListReviewsRequest{ProductID: productID}
	var resp ListReviewsResponse
	if err := callService(ctx, a.container, "list-reviews", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

// ListOrders returns the orders placed by a user.
func (a *catalogAdapter) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	req := ListOrdersRequest{UserID: userID}
	var resp ListOrdersResponse
	if err := callService(ctx, a.container, "list-orders", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// GetOrder returns one of a user's orders.
func (a *catalogAdapter) GetOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	req := GetOrderRequest{OrderID: orderID, UserID: userID}
	var resp OrderResponse
	if err := callService(ctx, a.container, "get-order", &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// ListCollection returns a named storefront collection.
func (a *catalogAdapter) ListCollection(ctx context.Context, name string) (*CollectionResponse, error) {
	req := ListCollectionRequest{Name: name}
	var resp CollectionResponse
	if err := callService(ctx, a.container, "list-collection", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdatePrice changes the price of a product.
func (a *catalogAdapter) UpdatePrice(ctx context.Context, productID string, price float64) (*UpdatePriceResponse, error) {
	req := UpdatePriceRequest{ProductID: productID, Price: price}
	var resp UpdatePriceResponse
	if err := callService(ctx, a.container, "update-price", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
