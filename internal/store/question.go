package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
)

// QuestionStore defines the interface for question persistence.
type QuestionStore interface {
	// Create saves a new question to the store.
	// Returns validation errors from the domain Question if data is invalid.
	Create(ctx context.Context, question *domain.Question) error

	// GetByID retrieves a question by its unique ID.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// ListByUser returns the user's questions ordered most recent first.
	// limit bounds the page size and offset skips past earlier pages.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Question, error)

	// WithTx returns a new QuestionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuestionStore
}
