// Package account holds the signed-in user state and its pure reducers.
//
// Login and Register install a fabricated user without checking any
// credential. Sessions are demo sessions only.
package account

import (
	"slices"
	"time"
)

// ShippingAddress is a postal address on a user's account.
type ShippingAddress struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}

// User is the account record of the signed-in customer.
type User struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Avatar    string            `json:"avatar,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Addresses []ShippingAddress `json:"addresses"`
	CreatedAt time.Time         `json:"createdAt"`
}

// AuthState is the persisted auth snapshot. User is nil when signed out.
type AuthState struct {
	User            *User   `json:"user"`
	IsAuthenticated bool    `json:"isAuthenticated"`
	IsLoading       bool    `json:"isLoading"`
	Error           *string `json:"error"`
}

// RegisterInput carries the fields of a registration form.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// NewState returns the signed-out state.
func NewState() AuthState {
	return AuthState{}
}

// DemoUser returns the account installed by Login.
func DemoUser() User {
	return User{
		ID:        "user_1",
		Email:     "demo@techstore.com",
		FirstName: "John",
		LastName:  "Doe",
		Avatar:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop",
		Phone:     "+1 (555) 123-4567",
		Addresses: []ShippingAddress{{
			ID:           "addr_1",
			FullName:     "John Doe",
			AddressLine1: "123 Tech Street",
			AddressLine2: "Apt 456",
			City:         "San Francisco",
			State:        "CA",
			ZipCode:      "94102",
			Country:      "United States",
			Phone:        "+1 (555) 123-4567",
			IsDefault:    true,
		}},
		CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func signedIn(u User) AuthState {
	return AuthState{User: &u, IsAuthenticated: true}
}

// Login signs in as the demo user with the supplied email. Any prior state
// is replaced.
func Login(_ AuthState, email string) AuthState {
	u := DemoUser()
	u.Email = email
	return signedIn(u)
}

// Register signs in a fresh user with no saved addresses.
func Register(_ AuthState, in RegisterInput, userID string, now time.Time) AuthState {
	u := DemoUser()
	u.ID = userID
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Addresses = []ShippingAddress{}
	u.CreatedAt = now
	return signedIn(u)
}

// Logout returns the signed-out state.
func Logout() AuthState {
	return NewState()
}

// SetLoading sets the loading flag.
func SetLoading(s AuthState, loading bool) AuthState {
	s.IsLoading = loading
	return s
}

// SetError records an error message, or clears it when msg is nil, and
// ends any loading phase.
func SetError(s AuthState, msg *string) AuthState {
	s.Error = msg
	s.IsLoading = false
	return s
}

// UpdateProfile merges the non-nil fields of upd into the current user.
// It is a no-op when signed out.
func UpdateProfile(s AuthState, upd ProfileUpdate) AuthState {
	if s.User == nil {
		return s
	}
	u := cloneUser(*s.User)
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	s.User = &u
	return s
}

// AddAddress appends addr under id. A new default clears the flag on every
// other address first. No-op when signed out.
func AddAddress(s AuthState, addr ShippingAddress, id string) AuthState {
	if s.User == nil {
		return s
	}
	u := cloneUser(*s.User)
	addr.ID = id
	if addr.IsDefault {
		clearDefaults(u.Addresses)
	}
	u.Addresses = append(u.Addresses, addr)
	s.User = &u
	return s
}

// UpdateAddress replaces the address with the same id. Unknown ids are a
// no-op.
func UpdateAddress(s AuthState, addr ShippingAddress) AuthState {
	if s.User == nil {
		return s
	}
	idx := slices.IndexFunc(s.User.Addresses, func(a ShippingAddress) bool {
		return a.ID == addr.ID
	})
	if idx < 0 {
		return s
	}
	u := cloneUser(*s.User)
	if addr.IsDefault {
		clearDefaults(u.Addresses)
	}
	u.Addresses[idx] = addr
	s.User = &u
	return s
}

// RemoveAddress deletes the address with id. The default is not reassigned.
func RemoveAddress(s AuthState, id string) AuthState {
	if s.User == nil {
		return s
	}
	u := cloneUser(*s.User)
	u.Addresses = slices.DeleteFunc(u.Addresses, func(a ShippingAddress) bool {
		return a.ID == id
	})
	s.User = &u
	return s
}

// Addresses returns the signed-in user's addresses, or an empty list.
func Addresses(s AuthState) []ShippingAddress {
	if s.User == nil {
		return []ShippingAddress{}
	}
	return s.User.Addresses
}

// DefaultAddress returns the address flagged as default.
func DefaultAddress(s AuthState) (ShippingAddress, bool) {
	for _, a := range Addresses(s) {
		if a.IsDefault {
			return a, true
		}
	}
	return ShippingAddress{}, false
}

func clearDefaults(addrs []ShippingAddress) {
	for i := range addrs {
		addrs[i].IsDefault = false
	}
}

func cloneUser(u User) User {
	u.Addresses = slices.Clone(u.Addresses)
	if u.Addresses == nil {
		u.Addresses = []ShippingAddress{}
	}
	return u
}
