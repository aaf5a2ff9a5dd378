package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/0x-70da/horus-shop/domain/account"
	"github.com/0x-70da/horus-shop/modules/snapshot"
	"github.com/google/uuid"
)

// Service manages session tokens and runs the account reducers against
// the session's snapshot container.
type Service struct {
	states *snapshot.Container[account.AuthState]
	tokens *TokenManager
	ids    *IDGenerator
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(states *snapshot.Container[account.AuthState], tokens *TokenManager, ids *IDGenerator) *Service {
	return &Service{
		states: states,
		tokens: tokens,
		ids:    ids,
		now:    time.Now,
	}
}

// CreateSession starts an anonymous session and signs a token for it.
func (s *Service) CreateSession() (SessionResponse, error) {
	sessionID := uuid.New().String()
	token, expiresAt, err := s.tokens.Issue(sessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	log.Printf("[auth] Session created: %s", sessionID)
	return SessionResponse{SessionID: sessionID, Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateSession returns the claims of a session token.
func (s *Service) ValidateSession(token string) (*SessionClaims, error) {
	return s.tokens.Validate(token)
}

// Get returns the auth state of a session.
func (s *Service) Get(ctx context.Context, sessionID string) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	return s.states.Get(ctx, sessionID)
}

// Login signs the session in as the demo user with the given email.
func (s *Service) Login(ctx context.Context, sessionID, email string) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	return s.states.Apply(ctx, sessionID, ActionLogin, func(cur account.AuthState) account.AuthState {
		return account.Login(cur, email)
	})
}

// Register signs the session in as a freshly created user.
func (s *Service) Register(ctx context.Context, sessionID string, in account.RegisterInput) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	userID := uuid.New().String()
	now := s.now()
	return s.states.Apply(ctx, sessionID, ActionRegister, func(cur account.AuthState) account.AuthState {
		return account.Register(cur, in, userID, now)
	})
}

// Logout signs the session out, deletes its auth snapshot and drops the
// session from memory.
func (s *Service) Logout(ctx context.Context, sessionID string) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	state, err := s.states.Reset(ctx, sessionID)
	if err != nil {
		return state, err
	}
	s.states.Forget(sessionID)
	return state, nil
}

// UpdateProfile merges profile fields into the signed-in user.
func (s *Service) UpdateProfile(ctx context.Context, sessionID string, upd account.ProfileUpdate) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	return s.states.Apply(ctx, sessionID, ActionUpdateProfile, func(cur account.AuthState) account.AuthState {
		return account.UpdateProfile(cur, upd)
	})
}

// AddAddress stores a new address under a generated id.
func (s *Service) AddAddress(ctx context.Context, sessionID string, addr account.ShippingAddress) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	id := s.ids.AddressID()
	return s.states.Apply(ctx, sessionID, ActionAddAddress, func(cur account.AuthState) account.AuthState {
		return account.AddAddress(cur, addr, id)
	})
}

// UpdateAddress replaces the address with the same id.
func (s *Service) UpdateAddress(ctx context.Context, sessionID string, addr account.ShippingAddress) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	return s.states.Apply(ctx, sessionID, ActionUpdateAddress, func(cur account.AuthState) account.AuthState {
		return account.UpdateAddress(cur, addr)
	})
}

// RemoveAddress deletes an address. No other address becomes the default.
func (s *Service) RemoveAddress(ctx context.Context, sessionID, addressID string) (account.AuthState, error) {
	if sessionID == "" {
		return account.AuthState{}, ErrSessionRequired
	}
	return s.states.Apply(ctx, sessionID, ActionRemoveAddress, func(cur account.AuthState) account.AuthState {
		return account.RemoveAddress(cur, addressID)
	})
}
