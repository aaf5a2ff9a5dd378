package catalog

import (
	"context"
	"errors"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
)

// Sentinel errors for catalog operations. They cross the request-reply
// boundary as message text.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidPrice      = errors.New("price must not be negative")
)

// Collection names accepted by list-collection.
const (
	CollectionFeatured    = "featured"
	CollectionBestSellers = "best-sellers"
	CollectionNewArrivals = "new-arrivals"
	CollectionFlashDeals  = "flash-deals"
	CollectionBanners     = "banners"
)

// GetProductRequest is the request for get-product.
type GetProductRequest struct {
	ProductID string `json:"product_id"`
}

// GetProductBySlugRequest is the request for get-product-by-slug.
type GetProductBySlugRequest struct {
	Slug string `json:"slug"`
}

// ProductResponse carries a single product.
type ProductResponse struct {
	Product domain.Product `json:"product"`
}

// ListProductsRequest is the request for list-products. Empty slices and
// nil pointers disable their filter. Limit <= 0 returns every match.
type ListProductsRequest struct {
	Query         string   `json:"query,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
	Brands        []string `json:"brands,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	MinRating     *float64 `json:"min_rating,omitempty"`
	InStockOnly   bool     `json:"in_stock_only,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	Offset        int      `json:"offset,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// ListProductsResponse is a page of products.
type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
}

// SearchProductsRequest is the request for search-products.
type SearchProductsRequest struct {
	Query string `json:"query"`
}

// ListCategoriesRequest is the request for list-categories.
type ListCategoriesRequest struct{}

// ListCategoriesResponse carries every category.
type ListCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// GetCategoryRequest is the request for get-category.
type GetCategoryRequest struct {
	Slug string `json:"slug"`
}

// CategoryResponse carries a category and its products.
type CategoryResponse struct {
	Category domain.Category  `json:"category"`
	Products []domain.Product `json:"products"`
}

// ListBrandsRequest is the request for list-brands.
type ListBrandsRequest struct{}

// ListBrandsResponse carries every brand.
type ListBrandsResponse struct {
	Brands []domain.Brand `json:"brands"`
}

// ListReviewsRequest is the request for list-reviews.
type ListReviewsRequest struct {
	ProductID string `json:"product_id"`
}

// ListReviewsResponse carries the reviews of a product.
type ListReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

// ListOrdersRequest is the request for list-orders.
type ListOrdersRequest struct {
	UserID string `json:"user_id"`
}

// ListOrdersResponse carries a user's orders.
type ListOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// GetOrderRequest is the request for get-order. OrderID may also be the
// order number. The order must belong to UserID.
type GetOrderRequest struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// OrderResponse carries a single order.
type OrderResponse struct {
	Order domain.Order `json:"order"`
}

// ListCollectionRequest is the request for list-collection.
type ListCollectionRequest struct {
	Name string `json:"name"`
}

// CollectionResponse carries the members of a named collection. Only the
// field matching the collection kind is filled.
type CollectionResponse struct {
	Name       string               `json:"name"`
	Products   []domain.Product     `json:"products,omitempty"`
	FlashDeals []domain.FlashDeal   `json:"flash_deals,omitempty"`
	Banners    []domain.PromoBanner `json:"banners,omitempty"`
}

// UpdatePriceRequest is the request for update-price.
type UpdatePriceRequest struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

// UpdatePriceResponse carries the product after a price change.
type UpdatePriceResponse struct {
	Product  domain.Product `json:"product"`
	OldPrice float64        `json:"old_price"`
}

// CatalogPort defines the catalog operations other modules use.
type CatalogPort interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*CategoryResponse, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID string) (*domain.Order, error)
	ListCollection(ctx context.Context, name string) (*CollectionResponse, error)
	UpdatePrice(ctx context.Context, productID string, price float64) (*UpdatePriceResponse, error)
}
