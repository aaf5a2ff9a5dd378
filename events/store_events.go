package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// CartUpdatedEvent is emitted after a cart mutation is committed.
type CartUpdatedEvent struct {
	SessionID     string    `json:"session_id"`
	Revision      uint64    `json:"revision"`
	Action        string    `json:"action"`
	ItemCount     int       `json:"item_count"`
	Subtotal      float64   `json:"subtotal"`
	Total         float64   `json:"total"`
	PromoCode     *string   `json:"promo_code,omitempty"`
	PromoDiscount float64   `json:"promo_discount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CartUpdatedV1 is the typed event definition for cart changes.
// Subject: events.cart.v1.cart-updated
var CartUpdatedV1 = helper.EventDefinition[CartUpdatedEvent](
	"cart", "CartUpdated", "v1",
)

// WishlistUpdatedEvent is emitted after a wishlist mutation is committed.
type WishlistUpdatedEvent struct {
	SessionID  string    `json:"session_id"`
	Revision   uint64    `json:"revision"`
	Action     string    `json:"action"`
	ProductIDs []string  `json:"product_ids"`
	PriceDrops []string  `json:"price_drops"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WishlistUpdatedV1 is the typed event definition for wishlist changes.
// Subject: events.wishlist.v1.wishlist-updated
var WishlistUpdatedV1 = helper.EventDefinition[WishlistUpdatedEvent](
	"wishlist", "WishlistUpdated", "v1",
)

// AuthChangedEvent is emitted after the signed-in user of a session changes.
type AuthChangedEvent struct {
	SessionID       string    `json:"session_id"`
	Revision        uint64    `json:"revision"`
	Action          string    `json:"action"`
	UserID          string    `json:"user_id,omitempty"`
	IsAuthenticated bool      `json:"is_authenticated"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// AuthChangedV1 is the typed event definition for auth changes.
// Subject: events.auth.v1.auth-changed
var AuthChangedV1 = helper.EventDefinition[AuthChangedEvent](
	"auth", "AuthChanged", "v1",
)

// ProductPriceChangedEvent is emitted when a catalog price is changed.
type ProductPriceChangedEvent struct {
	ProductID string    `json:"product_id"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	ChangedAt time.Time `json:"changed_at"`
}

// ProductPriceChangedV1 is the typed event definition for price changes.
// Subject: events.catalog.v1.product-price-changed
var ProductPriceChangedV1 = helper.EventDefinition[ProductPriceChangedEvent](
	"catalog", "ProductPriceChanged", "v1",
)
