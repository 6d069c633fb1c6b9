package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tdnguyen/user-api/internal/apperror"
	"github.com/tdnguyen/user-api/internal/model"
	"github.com/tdnguyen/user-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// username or email. SQLite reports these as extended result code 2067
// (SQLITE_CONSTRAINT_UNIQUE); the driver renders that as an error message
// containing "UNIQUE constraint failed: users.<column>".
//
// The constraint lives in the schema, so a concurrent insert racing past an
// application-level pre-check still lands here.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// List returns every user in id order. SQLite assigns ids monotonically, so
// id order is insertion order.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, password, email FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	// Initialise to an empty slice (not nil) so an empty table encodes as
	// [] rather than null in JSON responses.
	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}

// GetByID retrieves a user by id.
// Returns apperror.ErrNotFound if no row exists.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password, email FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their unique username.
// Returns apperror.ErrNotFound if no row exists.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password, email FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFoundField("user", "username", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username %q: %w", username, err)
	}

	return &u, nil
}

// Create inserts the user and fills in the storage-assigned id.
// A duplicate username or email returns apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, user.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username or email already exists")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted user id: %w", err)
	}
	user.ID = id

	return nil
}

// Update replaces username, password and email for user.ID.
// Returns apperror.ErrNotFound if the id has no row, apperror.ErrConflict if
// the new username or email collides with another row.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, password = ?, email = ? WHERE id = ?`,
		user.Username, user.PasswordHash, user.Email, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username or email already exists")
		}
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading update result for user %d: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes the row for id and returns a snapshot of the removed record.
// Returns apperror.ErrNotFound if the id has no row.
func (db *DB) Delete(ctx context.Context, id int64) (*model.User, error) {
	// Fetch the snapshot first so the caller gets the deleted record back.
	user, err := db.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	return user, nil
}
