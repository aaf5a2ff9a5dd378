package cart

import (
	"context"
	"errors"

	domain "github.com/0x-70da/horus-shop/domain/cart"
)

// Sentinel errors for cart operations.
var (
	ErrSessionRequired = errors.New("session id is required")
	ErrVariantNotFound = errors.New("variant not found")
)

// Cart actions, reported on CartUpdated events.
const (
	ActionAddItem        = "add-item"
	ActionRemoveItem     = "remove-item"
	ActionUpdateQuantity = "update-quantity"
	ActionClear          = "clear"
	ActionApplyPromo     = "apply-promo"
	ActionRemovePromo    = "remove-promo"
)

// View is the cart snapshot together with its derived totals.
type View struct {
	domain.State
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
}

// NewView computes the derived totals of s.
func NewView(s domain.State) View {
	return View{
		State:     s,
		ItemCount: domain.ItemCount(s),
		Subtotal:  domain.Subtotal(s),
		Discount:  domain.Discount(s),
		Total:     domain.Total(s),
	}
}

// GetCartRequest is the request for get.
type GetCartRequest struct {
	SessionID string `json:"session_id"`
}

// AddItemRequest is the request for add-item. An empty VariantID adds the
// base product.
type AddItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// RemoveItemRequest is the request for remove-item.
type RemoveItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
}

// UpdateQuantityRequest is the request for update-quantity. A quantity of
// zero or less removes the line.
type UpdateQuantityRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// ClearCartRequest is the request for clear.
type ClearCartRequest struct {
	SessionID string `json:"session_id"`
}

// ApplyPromoRequest is the request for apply-promo.
type ApplyPromoRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

// RemovePromoRequest is the request for remove-promo.
type RemovePromoRequest struct {
	SessionID string `json:"session_id"`
}

// CartResponse carries the cart after an operation. Applied is only set by
// apply-promo and reports whether the code was recognised.
type CartResponse struct {
	Cart    View  `json:"cart"`
	Applied *bool `json:"applied,omitempty"`
}

// CartPort defines the cart operations other modules use.
type CartPort interface {
	GetCart(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, req *AddItemRequest) (*View, error)
	RemoveItem(ctx context.Context, sessionID, productID, variantID string) (*View, error)
	UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*View, error)
	ClearCart(ctx context.Context, sessionID string) (*View, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (*View, bool, error)
	RemovePromo(ctx context.Context, sessionID string) (*View, error)
}
