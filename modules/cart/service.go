package cart

import (
	"context"
	"fmt"

	domain "github.com/0x-70da/horus-shop/domain/cart"
	catalogdomain "github.com/0x-70da/horus-shop/domain/catalog"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/snapshot"
)

// Service runs the cart reducers against the session's snapshot container.
// Products are resolved through the catalog before they enter the cart.
type Service struct {
	carts   *snapshot.Container[domain.State]
	catalog catalog.CatalogPort
}

// NewService creates a new cart service.
func NewService(carts *snapshot.Container[domain.State], catalogPort catalog.CatalogPort) *Service {
	return &Service{
		carts:   carts,
		catalog: catalogPort,
	}
}

// Get returns the cart of a session.
func (s *Service) Get(ctx context.Context, sessionID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.carts.Get(ctx, sessionID)
}

// AddItem adds quantity of a product, or of one of its variants, to the cart.
func (s *Service) AddItem(ctx context.Context, sessionID, productID, variantID string, quantity int) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.State{}, err
	}

	var variant *catalogdomain.ProductVariant
	if variantID != "" {
		v, ok := product.Variant(variantID)
		if !ok {
			return domain.State{}, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, productID, variantID)
		}
		variant = &v
	}

	return s.carts.Apply(ctx, sessionID, ActionAddItem, func(st domain.State) domain.State {
		return domain.AddItem(st, *product, quantity, variant)
	})
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID, variantID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.carts.Apply(ctx, sessionID, ActionRemoveItem, func(st domain.State) domain.State {
		return domain.RemoveItem(st, productID, variantID)
	})
}

// UpdateQuantity sets the quantity of a cart line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID, variantID string, quantity int) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.carts.Apply(ctx, sessionID, ActionUpdateQuantity, func(st domain.State) domain.State {
		return domain.UpdateQuantity(st, productID, variantID, quantity)
	})
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.carts.Apply(ctx, sessionID, ActionClear, domain.Clear)
}

// ApplyPromo applies a promo code and reports whether it was recognised.
// An unknown code still commits the unchanged cart.
func (s *Service) ApplyPromo(ctx context.Context, sessionID, code string) (domain.State, bool, error) {
	if sessionID == "" {
		return domain.State{}, false, ErrSessionRequired
	}

	var applied bool
	st, err := s.carts.Apply(ctx, sessionID, ActionApplyPromo, func(st domain.State) domain.State {
		next, ok := domain.ApplyPromoCode(st, code)
		applied = ok
		return next
	})
	if err != nil {
		return st, false, err
	}
	return st, applied, nil
}

// RemovePromo drops the promo code.
func (s *Service) RemovePromo(ctx context.Context, sessionID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.carts.Apply(ctx, sessionID, ActionRemovePromo, domain.RemovePromoCode)
}
