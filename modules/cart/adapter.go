package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// cartAdapter implements CartPort over request-reply services.
type cartAdapter struct {
	container mono.ServiceContainer
}

// NewCartAdapter creates a CartPort backed by the cart module's service
// container.
func NewCartAdapter(container mono.ServiceContainer) CartPort {
	if container == nil {
		panic("cart adapter requires non-nil ServiceContainer")
	}
	return &cartAdapter{container: container}
}

func (a *cartAdapter) call(ctx context.Context, service string, req any) (*CartResponse, error) {
	var resp CartResponse
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

// GetCart returns the cart of a session.
func (a *cartAdapter) GetCart(ctx context.Context, sessionID string) (*View, error) {
	resp, err := a.call(ctx, "get", &GetCartRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// AddItem adds a product to the cart.
func (a *cartAdapter) AddItem(ctx context.Context, req *AddItemRequest) (*View, error) {
	resp, err := a.call(ctx, "add-item", req)
	if err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// RemoveItem deletes a cart line.
func (a *cartAdapter) RemoveItem(ctx context.Context, sessionID, productID, variantID string) (*View, error) {
	resp, err := a.call(ctx, "remove-item", &RemoveItemRequest{
		SessionID: sessionID,
		ProductID: productID,
		VariantID: variantID,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// UpdateQuantity sets the quantity of a cart line.
func (a *cartAdapter) UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*View, error) {
	resp, err := a.call(ctx, "update-quantity", req)
	if err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// ClearCart empties the cart.
func (a *cartAdapter) ClearCart(ctx context.Context, sessionID string) (*View, error) {
	resp, err := a.call(ctx, "clear", &ClearCartRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// ApplyPromo applies a promo code and reports whether it was recognised.
func (a *cartAdapter) ApplyPromo(ctx context.Context, sessionID, code string) (*View, bool, error) {
	resp, err := a.call(ctx, "apply-promo", &ApplyPromoRequest{SessionID: sessionID, Code: code})
	if err != nil {
		return nil, false, err
	}
	applied := resp.Applied != nil && *resp.Applied
	return &resp.Cart, applied, nil
}

// RemovePromo drops the promo code.
func (a *cartAdapter) RemovePromo(ctx context.Context, sessionID string) (*View, error) {
	resp, err := a.call(ctx, "remove-promo", &RemovePromoRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}
