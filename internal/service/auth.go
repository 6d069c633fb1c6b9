// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ PasswordService (bcrypt)
//	                   ↘ TokenService (JWT)
//
// It owns the register, login and profile flows. Handlers never touch bcrypt
// or the JWT library directly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tdnguyen/user-api/internal/apperror"
	"github.com/tdnguyen/user-api/internal/auth"
	"github.com/tdnguyen/user-api/internal/model"
	"github.com/tdnguyen/user-api/internal/repository"
)

// invalidCredentials is the single outward message for every login failure.
// Unknown username and wrong password must be indistinguishable to the
// caller, otherwise the endpoint becomes a username-enumeration oracle.
const invalidCredentials = "Invalid credentials"

// dummyHash is a valid bcrypt hash (of a throwaway string, cost 10) compared
// against when the username lookup misses, so the miss path burns the same
// bcrypt work as a real mismatch and the two failures cost the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService handles registration, login and profile lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from server.New when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account from plaintext credentials.
//
// Flow:
//  1. Look up the username — if taken, fail with a conflict.
//  2. bcrypt-hash the password.
//  3. Insert the record (the DB's UNIQUE constraints backstop the pre-check
//     against a concurrent register with the same name).
//
// The returned User carries the stored record; the hash field is excluded
// from JSON by the model, so handlers can encode it directly.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, apperror.Conflict("Username is already taken")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race with a concurrent register.
			return nil, apperror.Conflict("Username is already taken")
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies the credentials and issues a signed token for the user.
//
// Both failure paths (unknown username, wrong password) return the same
// apperror.Unauthorized with the same message, and both perform one bcrypt
// comparison — see dummyHash.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Equalise timing with the mismatch path before failing.
			_ = s.passwords.Verify(dummyHash, password)
			return "", apperror.Unauthorized(invalidCredentials)
		}
		return "", fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}

// Profile returns the full record for an already-authenticated user id.
// The id comes from the token's subject claim, validated by the middleware.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", userID, err)
	}
	return user, nil
}
