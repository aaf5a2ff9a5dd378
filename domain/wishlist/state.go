// Package wishlist implements the saved-products set as pure reducers.
package wishlist

import (
	"slices"
	"time"

	"github.com/0x-70da/horus-shop/domain/catalog"
)

// Item is a saved product. PriceAtAdd is never updated after insertion.
type Item struct {
	ProductID  string          `json:"productId"`
	Product    catalog.Product `json:"product"`
	AddedAt    time.Time       `json:"addedAt"`
	PriceAtAdd float64         `json:"priceAtAdd"`
}

// PriceDropped reports whether the live product price is below PriceAtAdd.
func (i Item) PriceDropped() bool {
	return i.Product.Price < i.PriceAtAdd
}

// State is the persisted wishlist snapshot, unique by product id.
type State struct {
	Items []Item `json:"items"`
}

// NewState returns an empty wishlist.
func NewState() State {
	return State{Items: []Item{}}
}

// Add appends p unless it is already saved. It reports whether s changed.
func Add(s State, p catalog.Product, now time.Time) (State, bool) {
	if Contains(s, p.ID) {
		return s, false
	}
	s.Items = append(slices.Clone(s.Items), Item{
		ProductID:  p.ID,
		Product:    p,
		AddedAt:    now,
		PriceAtAdd: p.Price,
	})
	return s, true
}

// Remove deletes the item for productID if present.
func Remove(s State, productID string) State {
	s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(i Item) bool {
		return i.ProductID == productID
	})
	return s
}

// Toggle removes p when saved and adds it otherwise. The returned bool is
// true when p is saved afterwards.
func Toggle(s State, p catalog.Product, now time.Time) (State, bool) {
	if Contains(s, p.ID) {
		return Remove(s, p.ID), false
	}
	s, _ = Add(s, p, now)
	return s, true
}

// Clear empties the wishlist.
func Clear(State) State {
	return NewState()
}

// UpdateProduct replaces the product snapshot of a saved item, keeping
// AddedAt and PriceAtAdd.
func UpdateProduct(s State, p catalog.Product) State {
	items := slices.Clone(s.Items)
	for i := range items {
		if items[i].ProductID == p.ID {
			items[i].Product = p
		}
	}
	s.Items = items
	return s
}

// Count returns the number of saved products.
func Count(s State) int {
	return len(s.Items)
}

// Contains reports whether productID is saved.
func Contains(s State, productID string) bool {
	return slices.ContainsFunc(s.Items, func(i Item) bool {
		return i.ProductID == productID
	})
}

// PriceDrops returns the items whose live price fell below their price at add.
func PriceDrops(s State) []Item {
	result := make([]Item, 0)
	for _, i := range s.Items {
		if i.PriceDropped() {
			result = append(result, i)
		}
	}
	return result
}
