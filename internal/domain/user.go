package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID           = errors.New("user ID cannot be empty")
	ErrEmptyAccessCode       = errors.New("access code cannot be empty")
	ErrAccessCodeTooShort    = errors.New("access code must be at least 4 characters long")
	ErrAccessCodeTooLong     = errors.New("access code must be at most 50 characters long")
	ErrEmptyHashedAccessCode = errors.New("hashed access code cannot be empty")
)

// User represents an alpha-access user of the application. Users authenticate
// with a pre-issued access code rather than an email/password pair.
type User struct {
	ID               uuid.UUID `json:"id"`
	AccessCode       string    `json:"-"` // Plaintext access code, used temporarily during creation
	HashedAccessCode string    `json:"-"` // Never expose the hash in JSON
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given plaintext access code.
// The access code is hashed by the store before persistence.
// Returns an error if validation fails.
func NewUser(accessCode string) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		AccessCode: accessCode,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Either the plaintext access code or its hash must be present.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.AccessCode == "" && u.HashedAccessCode == "" {
		return ErrEmptyAccessCode
	}

	if u.AccessCode != "" {
		if len(u.AccessCode) < 4 {
			return ErrAccessCodeTooShort
		}
		if len(u.AccessCode) > 50 {
			return ErrAccessCodeTooLong
		}
	}

	return nil
}
