package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
)

// AnswerStore defines the interface for answer persistence.
type AnswerStore interface {
	// Create saves a new answer to the store.
	// Returns validation errors from the domain Answer if data is invalid.
	Create(ctx context.Context, answer *domain.Answer) error

	// GetByQuestionID retrieves the answer for the given question.
	// Returns ErrAnswerNotFound if no answer has been recorded yet.
	GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)

	// WithTx returns a new AnswerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AnswerStore
}
