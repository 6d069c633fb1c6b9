// Package repository defines the storage interfaces the service layer
// programs against. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/tdnguyen/user-api/internal/model"
)

// UserRepository is the persistence boundary for user records.
//
// Absent rows surface as apperror.ErrNotFound; uniqueness violations on
// username or email surface as apperror.ErrConflict. Everything else is a
// storage error and passes through wrapped.
type UserRepository interface {
	// List returns all users in insertion (id) order.
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Create inserts the user and fills in the storage-assigned ID.
	Create(ctx context.Context, user *model.User) error
	// Update replaces username, password and email for the given id.
	// Full-field replace — there are no partial-update semantics.
	Update(ctx context.Context, user *model.User) error
	// Delete removes the row and returns a snapshot of what was removed.
	Delete(ctx context.Context, id int64) (*model.User, error)
}
