package api

import "github.com/0x-70da/horus-shop/domain/account"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AddCartItemRequest is the body of POST /cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
}

// UpdateCartItemRequest is the body of PATCH /cart/items/:productId.
type UpdateCartItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  *int   `json:"quantity" validate:"required"`
}

// PromoRequest is the body of POST /cart/promo.
type PromoRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

// WishlistItemRequest is the body of POST /wishlist/items.
type WishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"required,max=64"`
}

// ProfileRequest is the body of PATCH /auth/profile. Absent fields are kept.
type ProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=64"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=64"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
}

// ToUpdate converts the request to a profile update.
func (r ProfileRequest) ToUpdate() account.ProfileUpdate {
	return account.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Avatar:    r.Avatar,
	}
}

// AddressRequest is the body of POST /auth/addresses and
// PUT /auth/addresses/:id.
type AddressRequest struct {
	FullName     string `json:"full_name" validate:"required,max=128"`
	AddressLine1 string `json:"address_line1" validate:"required,max=256"`
	AddressLine2 string `json:"address_line2" validate:"max=256"`
	City         string `json:"city" validate:"required,max=128"`
	State        string `json:"state" validate:"required,max=128"`
	ZipCode      string `json:"zip_code" validate:"required,max=16"`
	Country      string `json:"country" validate:"required,max=64"`
	Phone        string `json:"phone" validate:"max=32"`
	IsDefault    bool   `json:"is_default"`
}

// ToAddress converts the request to a shipping address with id.
func (r AddressRequest) ToAddress(id string) account.ShippingAddress {
	return account.ShippingAddress{
		ID:           id,
		FullName:     r.FullName,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		ZipCode:      r.ZipCode,
		Country:      r.Country,
		Phone:        r.Phone,
		IsDefault:    r.IsDefault,
	}
}

// PriceRequest is the body of PUT /products/:id/price.
type PriceRequest struct {
	Price *float64 `json:"price" validate:"required,gte=0"`
}
