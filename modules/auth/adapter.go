package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// authAdapter implements AuthPort over request-reply services.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates an AuthPort backed by the auth module's service
// container.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

func (a *authAdapter) call(ctx context.Context, service string, req any) (*AuthResponse, error) {
	var resp AuthResponse
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

// CreateSession starts an anonymous session.
func (a *authAdapter) CreateSession(ctx context.Context) (*SessionResponse, error) {
	var resp SessionResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-session",
		json.Marshal,
		json.Unmarshal,
		&CreateSessionRequest{},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-session service call failed: %w", err)
	}
	return &resp, nil
}

// ValidateSession validates a session token and returns its session id.
func (a *authAdapter) ValidateSession(ctx context.Context, token string) (string, error) {
	var resp ValidateSessionResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-session",
		json.Marshal,
		json.Unmarshal,
		&ValidateSessionRequest{Token: token},
		&resp,
	); err != nil {
		return "", fmt.Errorf("validate-session service call failed: %w", err)
	}

	if !resp.Valid {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, resp.Error)
	}
	return resp.SessionID, nil
}

// GetAuth returns the auth state of a session.
func (a *authAdapter) GetAuth(ctx context.Context, sessionID string) (*AuthResponse, error) {
	return a.call(ctx, "get", &GetAuthRequest{SessionID: sessionID})
}

// Login signs the session in.
func (a *authAdapter) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	return a.call(ctx, "login", req)
}

// Register signs the session in as a new user.
func (a *authAdapter) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	return a.call(ctx, "register", req)
}

// Logout signs the session out.
func (a *authAdapter) Logout(ctx context.Context, sessionID string) (*AuthResponse, error) {
	return a.call(ctx, "logout", &LogoutRequest{SessionID: sessionID})
}

// UpdateProfile changes profile fields of the signed-in user.
func (a *authAdapter) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*AuthResponse, error) {
	return a.call(ctx, "update-profile", req)
}

// AddAddress adds a shipping address.
func (a *authAdapter) AddAddress(ctx context.Context, req *AddressRequest) (*AuthResponse, error) {
	return a.call(ctx, "add-address", req)
}

// UpdateAddress replaces a shipping address.
func (a *authAdapter) UpdateAddress(ctx context.Context, req *AddressRequest) (*AuthResponse, error) {
	return a.call(ctx, "update-address", req)
}

// RemoveAddress deletes a shipping address.
func (a *authAdapter) RemoveAddress(ctx context.Context, sessionID, addressID string) (*AuthResponse, error) {
	return a.call(ctx, "remove-address", &RemoveAddressRequest{SessionID: sessionID, AddressID: addressID})
}
