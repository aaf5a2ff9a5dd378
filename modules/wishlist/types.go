package wishlist

import (
	"context"
	"errors"

	domain "github.com/0x-70da/horus-shop/domain/wishlist"
)

// ErrSessionRequired is returned when a request carries no session id.
var ErrSessionRequired = errors.New("session id is required")

// Wishlist actions, reported on WishlistUpdated events.
const (
	ActionAdd            = "add"
	ActionRemove         = "remove"
	ActionToggle         = "toggle"
	ActionClear          = "clear"
	ActionRefreshProduct = "refresh-product"
	ActionPriceChanged   = "price-changed"
)

// View is the wishlist snapshot together with its derived fields.
type View struct {
	domain.State
	Count      int           `json:"count"`
	PriceDrops []domain.Item `json:"priceDrops"`
}

// NewView computes the derived fields of s.
func NewView(s domain.State) View {
	return View{
		State:      s,
		Count:      domain.Count(s),
		PriceDrops: domain.PriceDrops(s),
	}
}

// GetWishlistRequest is the request for get.
type GetWishlistRequest struct {
	SessionID string `json:"session_id"`
}

// ProductRequest is the request for add, remove, toggle and refresh-product.
type ProductRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// ClearWishlistRequest is the request for clear.
type ClearWishlistRequest struct {
	SessionID string `json:"session_id"`
}

// WishlistResponse carries the wishlist after an operation. Changed reports
// whether add or toggle altered membership, Saved whether the product is
// saved afterwards.
type WishlistResponse struct {
	Wishlist View `json:"wishlist"`
	Changed  bool `json:"changed,omitempty"`
	Saved    bool `json:"saved,omitempty"`
}

// WishlistPort defines the wishlist operations other modules use.
type WishlistPort interface {
	GetWishlist(ctx context.Context, sessionID string) (*View, error)
	Add(ctx context.Context, sessionID, productID string) (*WishlistResponse, error)
	Remove(ctx context.Context, sessionID, productID string) (*View, error)
	Toggle(ctx context.Context, sessionID, productID string) (*WishlistResponse, error)
	Clear(ctx context.Context, sessionID string) (*View, error)
	RefreshProduct(ctx context.Context, sessionID, productID string) (*View, error)
}
