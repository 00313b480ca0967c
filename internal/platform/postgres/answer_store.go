package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// AnswerStore implements the store.AnswerStore interface using a PostgreSQL
// database as the storage backend.
type AnswerStore struct {
	db store.DBTX
}

// NewAnswerStore creates a new PostgreSQL implementation of the AnswerStore
// interface.
func NewAnswerStore(db store.DBTX) *AnswerStore {
	return &AnswerStore{db: db}
}

// Ensure AnswerStore implements store.AnswerStore
var _ store.AnswerStore = (*AnswerStore)(nil)

// WithTx returns an AnswerStore bound to the given transaction.
func (s *AnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return &AnswerStore{db: tx}
}

// Create implements store.AnswerStore.Create. The four stage outputs are
// stored as jsonb columns.
func (s *AnswerStore) Create(ctx context.Context, answer *domain.Answer) error {
	if err := answer.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (id, question_id, generator_output, validator_output,
		   auditor_output, scorer_output, final_answer, confidence_score,
		   retries, processing_time_ms, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		answer.ID, answer.QuestionID,
		nullableJSON(answer.GeneratorOutput), nullableJSON(answer.ValidatorOutput),
		nullableJSON(answer.AuditorOutput), nullableJSON(answer.ScorerOutput),
		answer.FinalAnswer, answer.ConfidenceScore,
		answer.Retries, answer.ProcessingTimeMs, answer.Status, answer.CreatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByQuestionID implements store.AnswerStore.GetByQuestionID.
func (s *AnswerStore) GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	var answer domain.Answer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, question_id, generator_output, validator_output,
		   auditor_output, scorer_output, final_answer, confidence_score,
		   retries, processing_time_ms, status, created_at
		 FROM answers WHERE question_id = $1`,
		questionID).Scan(&answer.ID, &answer.QuestionID,
		&answer.GeneratorOutput, &answer.ValidatorOutput,
		&answer.AuditorOutput, &answer.ScorerOutput,
		&answer.FinalAnswer, &answer.ConfidenceScore,
		&answer.Retries, &answer.ProcessingTimeMs, &answer.Status, &answer.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAnswerNotFound
		}
		return nil, MapError(err)
	}

	return &answer, nil
}

// nullableJSON converts an empty raw message to NULL so jsonb columns do not
// reject the empty string.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
