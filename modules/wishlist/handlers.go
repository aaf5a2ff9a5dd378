package wishlist

import (
	"context"

	"github.com/go-monolith/mono"
)

func (m *Module) getWishlist(ctx context.Context, req GetWishlistRequest, _ *mono.Msg) (WishlistResponse, error) {
	st, err := m.service.Get(ctx, req.SessionID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return WishlistResponse{Wishlist: NewView(st)}, nil
}

func (m *Module) add(ctx context.Context, req ProductRequest, _ *mono.Msg) (WishlistResponse, error) {
	st, changed, err := m.service.Add(ctx, req.SessionID, req.ProductID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return WishlistResponse{Wishlist: NewView(st), Changed: changed, Saved: true}, nil
}

func (m *Module) remove(ctx context.Context, req ProductRequest, _ *mono.Msg) (WishlistResponse, error) {
	st, err := m.service.Remove(ctx, req.SessionID, req.ProductID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return WishlistResponse{Wishlist: NewView(st)}, nil
}

func (m *Module) toggle(ctx context.Context, req ProductRequest, _ *mono.Msg) (WishlistResponse, error) {
	st, saved, err := m.service.Toggle(ctx, req.SessionID, req.ProductID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return WishlistResponse{Wishlist: NewView(st), Changed: true, Saved: saved}, nil
}

func (m *Module) clear(ctx context.Context, req ClearWishlistRequest, _ *mono.Msg) (WishlistResponse, error) {
	st, err := m.service.Clear(ctx, req.SessionID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return WishlistResponse{Wishlist: NewView(st)}, nil
}

func (m *Module) refreshProduct(ctx context.Context, req ProductRequest, _ *mono.Msg) (WishlistResponse, error) {
	st, err := m.service.RefreshProduct(ctx, req.SessionID, req.ProductID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return WishlistResponse{Wishlist: NewView(st)}, nil
}
