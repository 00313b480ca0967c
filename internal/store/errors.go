package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it so callers can match
	// either way.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrSubjectNotFound indicates that the requested subject does not exist in the store.
	ErrSubjectNotFound = fmt.Errorf("%w: subject", ErrNotFound)

	// ErrChapterNotFound indicates that the requested chapter does not exist in the store.
	ErrChapterNotFound = fmt.Errorf("%w: chapter", ErrNotFound)

	// ErrQuestionNotFound indicates that the requested question does not exist in the store.
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)

	// ErrAnswerNotFound indicates that the requested answer does not exist in the store.
	ErrAnswerNotFound = fmt.Errorf("%w: answer", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUserExists indicates that a user with the given user ID already exists.
	ErrUserExists = fmt.Errorf("%w: user ID", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
