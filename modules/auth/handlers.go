package auth

import (
	"context"
	"errors"

	"github.com/0x-70da/horus-shop/domain/account"
	"github.com/go-monolith/mono"
)

func (m *Module) createSession(_ context.Context, _ CreateSessionRequest, _ *mono.Msg) (SessionResponse, error) {
	return m.service.CreateSession()
}

// validateSession reports failures in the body rather than as an error.
func (m *Module) validateSession(_ context.Context, req ValidateSessionRequest, _ *mono.Msg) (ValidateSessionResponse, error) {
	claims, err := m.service.ValidateSession(req.Token)
	if err != nil {
		errMsg := "invalid session token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "session token expired"
		}
		return ValidateSessionResponse{Valid: false, Error: errMsg}, nil
	}

	resp := ValidateSessionResponse{Valid: true, SessionID: claims.SessionID}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp, nil
}

func (m *Module) getAuth(ctx context.Context, req GetAuthRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.Get(ctx, req.SessionID)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) login(ctx context.Context, req LoginRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.Login(ctx, req.SessionID, req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) register(ctx context.Context, req RegisterRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.Register(ctx, req.SessionID, account.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) logout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.Logout(ctx, req.SessionID)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) updateProfile(ctx context.Context, req UpdateProfileRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.UpdateProfile(ctx, req.SessionID, req.Profile)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) addAddress(ctx context.Context, req AddressRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.AddAddress(ctx, req.SessionID, req.Address)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) updateAddress(ctx context.Context, req AddressRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.UpdateAddress(ctx, req.SessionID, req.Address)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}

func (m *Module) removeAddress(ctx context.Context, req RemoveAddressRequest, _ *mono.Msg) (AuthResponse, error) {
	st, err := m.service.RemoveAddress(ctx, req.SessionID, req.AddressID)
	if err != nil {
		return AuthResponse{}, err
	}
	return NewAuthResponse(st), nil
}
