// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → orchestrates, enforces rules
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and return domain models and domain errors —
// they know nothing about HTTP. The handlers translate domain errors to
// status codes.
//
// DEPENDENCY INJECTION:
// UserService takes a repository.UserRepository (interface), not a concrete
// *sqlite.DB. Tests pass an in-memory fake; main wires the sqlite
// implementation. The service never imports the sqlite package.
package service

import (
	"context"
	"log/slog"

	"github.com/tdnguyen/user-api/internal/model"
	"github.com/tdnguyen/user-api/internal/repository"
)

// UserService handles the plain CRUD operations on user records.
//
// Note that it deliberately performs no input validation and no password
// hashing: the create/update endpoints accept the password value as given
// (callers may supply a pre-computed hash). Only the registration flow in
// AuthService hashes. Uniqueness of username and email is enforced by the
// storage engine's constraints, not pre-checked here.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService with its dependencies.
func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all users in insertion order.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// Get returns the user with the given id, or apperror.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a new user record with the supplied field values.
func (s *UserService) Create(ctx context.Context, username, password, email string) (*model.User, error) {
	user := &model.User{
		Username:     username,
		PasswordHash: password,
		Email:        email,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Update replaces all mutable fields of the user with the given id.
// Returns apperror.ErrNotFound if the id has no record.
func (s *UserService) Update(ctx context.Context, id int64, username, password, email string) (*model.User, error) {
	user := &model.User{
		ID:           id,
		Username:     username,
		PasswordHash: password,
		Email:        email,
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.Int64("id", id))

	return user, nil
}

// Delete removes the user with the given id and returns the removed record's
// snapshot. Returns apperror.ErrNotFound if the id has no record.
func (s *UserService) Delete(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user deleted",
		slog.Int64("id", id),
		slog.String("username", user.Username),
	)

	return user, nil
}
