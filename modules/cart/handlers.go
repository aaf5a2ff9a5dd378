package cart

import (
	"context"

	"github.com/go-monolith/mono"
)

func (m *Module) getCart(ctx context.Context, req GetCartRequest, _ *mono.Msg) (CartResponse, error) {
	st, err := m.service.Get(ctx, req.SessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st)}, nil
}

func (m *Module) addItem(ctx context.Context, req AddItemRequest, _ *mono.Msg) (CartResponse, error) {
	st, err := m.service.AddItem(ctx, req.SessionID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st)}, nil
}

func (m *Module) removeItem(ctx context.Context, req RemoveItemRequest, _ *mono.Msg) (CartResponse, error) {
	st, err := m.service.RemoveItem(ctx, req.SessionID, req.ProductID, req.VariantID)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st)}, nil
}

func (m *Module) updateQuantity(ctx context.Context, req UpdateQuantityRequest, _ *mono.Msg) (CartResponse, error) {
	st, err := m.service.UpdateQuantity(ctx, req.SessionID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st)}, nil
}

func (m *Module) clearCart(ctx context.Context, req ClearCartRequest, _ *mono.Msg) (CartResponse, error) {
	st, err := m.service.Clear(ctx, req.SessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st)}, nil
}

func (m *Module) applyPromo(ctx context.Context, req ApplyPromoRequest, _ *mono.Msg) (CartResponse, error) {
	st, applied, err := m.service.ApplyPromo(ctx, req.SessionID, req.Code)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st), Applied: &applied}, nil
}

func (m *Module) removePromo(ctx context.Context, req RemovePromoRequest, _ *mono.Msg) (CartResponse, error) {
	st, err := m.service.RemovePromo(ctx, req.SessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return CartResponse{Cart: NewView(st)}, nil
}
