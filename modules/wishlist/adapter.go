package wishlist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// wishlistAdapter implements WishlistPort over request-reply services.
type wishlistAdapter struct {
	container mono.ServiceContainer
}

// NewWishlistAdapter creates a WishlistPort backed by the wishlist module's
// service container.
func NewWishlistAdapter(container mono.ServiceContainer) WishlistPort {
	if container == nil {
		panic("wishlist adapter requires non-nil ServiceContainer")
	}
	return &wishlistAdapter{container: container}
}

func (a *wishlistAdapter) call(ctx context.Context, service string, req any) (*WishlistResponse, error) {
	var resp WishlistResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", service, err)
	}
	return &resp, nil
}

// GetWishlist returns the wishlist of a session.
func (a *wishlistAdapter) GetWishlist(ctx context.Context, sessionID string) (*View, error) {
	resp, err := a.call(ctx, "get", &GetWishlistRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &resp.Wishlist, nil
}

// Add saves a product.
func (a *wishlistAdapter) Add(ctx context.Context, sessionID, productID string) (*WishlistResponse, error) {
	return a.call(ctx, "add", &ProductRequest{SessionID: sessionID, ProductID: productID})
}

// Remove deletes a saved product.
func (a *wishlistAdapter) Remove(ctx context.Context, sessionID, productID string) (*View, error) {
	resp, err := a.call(ctx, "remove", &ProductRequest{SessionID: sessionID, ProductID: productID})
	if err != nil {
		return nil, err
	}
	return &resp.Wishlist, nil
}

// Toggle saves or unsaves a product.
func (a *wishlistAdapter) Toggle(ctx context.Context, sessionID, productID string) (*WishlistResponse, error) {
	return a.call(ctx, "toggle", &ProductRequest{SessionID: sessionID, ProductID: productID})
}

// Clear empties the wishlist.
func (a *wishlistAdapter) Clear(ctx context.Context, sessionID string) (*View, error) {
	resp, err := a.call(ctx, "clear", &ClearWishlistRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &resp.Wishlist, nil
}

// RefreshProduct refreshes a saved product from the catalog.
func (a *wishlistAdapter) RefreshProduct(ctx context.Context, sessionID, productID string) (*View, error) {
	resp, err := a.call(ctx, "refresh-product", &ProductRequest{SessionID: sessionID, ProductID: productID})
	if err != nil {
		return nil, err
	}
	return &resp.Wishlist, nil
}
