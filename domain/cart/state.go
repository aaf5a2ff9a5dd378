// Package cart implements the shopping cart as pure reducers over State.
package cart

import (
	"slices"
	"strings"

	"github.com/0x-70da/horus-shop/domain/catalog"
)

// PromoCodes maps upper-case promo codes to a percentage discount.
var PromoCodes = map[string]float64{
	"TECH10":  10,
	"SAVE20":  20,
	"NEWUSER": 15,
}

// LookupPromo returns the discount percentage for a code, ignoring case.
func LookupPromo(code string) (float64, bool) {
	pct, ok := PromoCodes[strings.ToUpper(strings.TrimSpace(code))]
	return pct, ok
}

// Item is a cart line keyed by product id and optional variant id.
type Item struct {
	ProductID       string                  `json:"productId"`
	Product         catalog.Product         `json:"product"`
	Quantity        int                     `json:"quantity"`
	SelectedVariant *catalog.ProductVariant `json:"selectedVariant,omitempty"`
}

// VariantID returns the selected variant id or "" when none is selected.
func (i Item) VariantID() string {
	if i.SelectedVariant == nil {
		return ""
	}
	return i.SelectedVariant.ID
}

// UnitPrice is the variant price when a variant is selected, else the product price.
func (i Item) UnitPrice() float64 {
	return i.Product.EffectivePrice(i.SelectedVariant)
}

func (i Item) matches(productID, variantID string) bool {
	return i.ProductID == productID && i.VariantID() == variantID
}

// State is the persisted cart snapshot.
type State struct {
	Items         []Item  `json:"items"`
	PromoCode     *string `json:"promoCode"`
	PromoDiscount float64 `json:"promoDiscount"`
}

// NewState returns an empty cart.
func NewState() State {
	return State{Items: []Item{}}
}

// AddItem merges quantity into the line for (product, variant) or appends a
// new line. Quantity is not bounded here.
func AddItem(s State, p catalog.Product, quantity int, v *catalog.ProductVariant) State {
	variantID := ""
	if v != nil {
		variantID = v.ID
	}

	items := slices.Clone(s.Items)
	for i := range items {
		if items[i].matches(p.ID, variantID) {
			items[i].Quantity += quantity
			s.Items = items
			return s
		}
	}

	item := Item{ProductID: p.ID, Product: p, Quantity: quantity}
	if v != nil {
		variant := *v
		item.SelectedVariant = &variant
	}
	s.Items = append(items, item)
	return s
}

// RemoveItem deletes the matching line. Missing lines are a no-op.
func RemoveItem(s State, productID, variantID string) State {
	s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(i Item) bool {
		return i.matches(productID, variantID)
	})
	return s
}

// UpdateQuantity sets the quantity of a line, removing it when quantity <= 0.
func UpdateQuantity(s State, productID, variantID string, quantity int) State {
	if quantity <= 0 {
		return RemoveItem(s, productID, variantID)
	}
	items := slices.Clone(s.Items)
	for i := range items {
		if items[i].matches(productID, variantID) {
			items[i].Quantity = quantity
		}
	}
	s.Items = items
	return s
}

// Clear empties the cart and drops any promo code.
func Clear(State) State {
	return NewState()
}

// ApplyPromoCode installs a known promo code. Unknown codes leave s unchanged
// and report false.
func ApplyPromoCode(s State, code string) (State, bool) {
	pct, ok := LookupPromo(code)
	if !ok {
		return s, false
	}
	upper := strings.ToUpper(strings.TrimSpace(code))
	s.PromoCode = &upper
	s.PromoDiscount = pct
	return s, true
}

// RemovePromoCode clears the promo fields.
func RemovePromoCode(s State) State {
	s.PromoCode = nil
	s.PromoDiscount = 0
	return s
}

// Find returns the line for (product, variant).
func Find(s State, productID, variantID string) (Item, bool) {
	for _, i := range s.Items {
		if i.matches(productID, variantID) {
			return i, true
		}
	}
	return Item{}, false
}

// ItemCount is the sum of line quantities.
func ItemCount(s State) int {
	n := 0
	for _, i := range s.Items {
		n += i.Quantity
	}
	return n
}

// Subtotal is the sum of unit price times quantity.
func Subtotal(s State) float64 {
	total := 0.0
	for _, i := range s.Items {
		total += i.UnitPrice() * float64(i.Quantity)
	}
	return total
}

// Discount is the promo percentage applied to the current subtotal.
func Discount(s State) float64 {
	return Subtotal(s) * s.PromoDiscount / 100
}

// Total is the subtotal less the promo discount.
func Total(s State) float64 {
	return Subtotal(s) - Discount(s)
}
