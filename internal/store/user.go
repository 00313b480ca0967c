package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The plaintext access code on the user is hashed before persistence.
	// Returns ErrUserExists if a user with the same ID already exists.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user carries the hashed access code, never the plaintext.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByAccessCode retrieves the user whose stored hash matches the given
	// plaintext access code. Returns ErrUserNotFound when no user matches;
	// the caller cannot distinguish an unknown code from a wrong one.
	GetByAccessCode(ctx context.Context, accessCode string) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction is created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
