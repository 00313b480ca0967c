package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection that should be initialized
// and managed by the caller.
func NewUserStore(db store.DBTX) *UserStore {
	return &UserStore{db: db}
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// WithTx returns a UserStore bound to the given transaction.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx}
}

// Create implements store.UserStore.Create. The plaintext access code is
// hashed with bcrypt before it touches the database; the plaintext field is
// cleared on success.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if user.AccessCode == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyAccessCode)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.AccessCode), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash access code: %w", err)
	}
	user.HashedAccessCode = string(hashed)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, hashed_access_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, user.HashedAccessCode, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrUserExists, err)
		}
		return MapError(err)
	}

	user.AccessCode = ""
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hashed_access_code, created_at, updated_at
		 FROM users WHERE id = $1`,
		id).Scan(&user.ID, &user.HashedAccessCode, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	return &user, nil
}

// GetByAccessCode implements store.UserStore.GetByAccessCode. Access codes
// are stored as bcrypt hashes, so there is no indexed lookup; the alpha user
// base is small enough to compare against every stored hash.
func (s *UserStore) GetByAccessCode(ctx context.Context, accessCode string) (*domain.User, error) {
	if accessCode == "" {
		return nil, store.ErrUserNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hashed_access_code, created_at, updated_at FROM users`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.HashedAccessCode, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.HashedAccessCode), []byte(accessCode)) == nil {
			return &user, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return nil, store.ErrUserNotFound
}
