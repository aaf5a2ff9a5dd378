package auth

import (
	"context"
	"errors"
	"time"

	"github.com/0x-70da/horus-shop/domain/account"
)

// Sentinel errors for auth operations.
var (
	ErrSessionRequired  = errors.New("session id is required")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Auth actions, reported on AuthChanged events.
const (
	ActionLogin         = "login"
	ActionRegister      = "register"
	ActionLogout        = "logout"
	ActionUpdateProfile = "update-profile"
	ActionAddAddress    = "add-address"
	ActionUpdateAddress = "update-address"
	ActionRemoveAddress = "remove-address"
)

// CreateSessionRequest is the request for create-session.
type CreateSessionRequest struct{}

// SessionResponse carries a newly issued session.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidateSessionRequest is the request for validate-session.
type ValidateSessionRequest struct {
	Token string `json:"token"`
}

// ValidateSessionResponse reports whether a session token is valid.
type ValidateSessionResponse struct {
	Valid     bool      `json:"valid"`
	SessionID string    `json:"session_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// GetAuthRequest is the request for get.
type GetAuthRequest struct {
	SessionID string `json:"session_id"`
}

// LoginRequest is the request for login. Password is accepted but never
// checked.
type LoginRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RegisterRequest is the request for register.
type RegisterRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LogoutRequest is the request for logout.
type LogoutRequest struct {
	SessionID string `json:"session_id"`
}

// UpdateProfileRequest is the request for update-profile.
type UpdateProfileRequest struct {
	SessionID string                `json:"session_id"`
	Profile   account.ProfileUpdate `json:"profile"`
}

// AddressRequest is the request for add-address and update-address. The
// address id is ignored by add-address.
type AddressRequest struct {
	SessionID string                  `json:"session_id"`
	Address   account.ShippingAddress `json:"address"`
}

// RemoveAddressRequest is the request for remove-address.
type RemoveAddressRequest struct {
	SessionID string `json:"session_id"`
	AddressID string `json:"address_id"`
}

// AuthResponse carries the auth state of a session.
type AuthResponse struct {
	Auth           account.AuthState        `json:"auth"`
	DefaultAddress *account.ShippingAddress `json:"defaultAddress,omitempty"`
}

// NewAuthResponse builds the response for s.
func NewAuthResponse(s account.AuthState) AuthResponse {
	resp := AuthResponse{Auth: s}
	if addr, ok := account.DefaultAddress(s); ok {
		resp.DefaultAddress = &addr
	}
	return resp
}

// AuthPort defines the auth operations other modules use.
type AuthPort interface {
	CreateSession(ctx context.Context) (*SessionResponse, error)
	ValidateSession(ctx context.Context, token string) (string, error)
	GetAuth(ctx context.Context, sessionID string) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Logout(ctx context.Context, sessionID string) (*AuthResponse, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*AuthResponse, error)
	AddAddress(ctx context.Context, req *AddressRequest) (*AuthResponse, error)
	UpdateAddress(ctx context.Context, req *AddressRequest) (*AuthResponse, error)
	RemoveAddress(ctx context.Context, sessionID, addressID string) (*AuthResponse, error)
}
