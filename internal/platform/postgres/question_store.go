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

// defaultHistoryLimit caps unbounded history queries.
const defaultHistoryLimit = 20

// QuestionStore implements the store.QuestionStore interface using a
// PostgreSQL database as the storage backend.
type QuestionStore struct {
	db store.DBTX
}

// NewQuestionStore creates a new PostgreSQL implementation of the
// QuestionStore interface.
func NewQuestionStore(db store.DBTX) *QuestionStore {
	return &QuestionStore{db: db}
}

// Ensure QuestionStore implements store.QuestionStore
var _ store.QuestionStore = (*QuestionStore)(nil)

// WithTx returns a QuestionStore bound to the given transaction.
func (s *QuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return &QuestionStore{db: tx}
}

// Create implements store.QuestionStore.Create.
func (s *QuestionStore) Create(ctx context.Context, question *domain.Question) error {
	if err := question.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (id, user_id, subject_id, chapter_id, question_text, syllabus_context, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		question.ID, question.UserID, question.SubjectID, question.ChapterID,
		question.QuestionText, question.SyllabusContext, question.CreatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.QuestionStore.GetByID.
func (s *QuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	var question domain.Question
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, subject_id, chapter_id, question_text, syllabus_context, created_at
		 FROM questions WHERE id = $1`,
		id).Scan(&question.ID, &question.UserID, &question.SubjectID, &question.ChapterID,
		&question.QuestionText, &question.SyllabusContext, &question.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuestionNotFound
		}
		return nil, MapError(err)
	}

	return &question, nil
}

// ListByUser implements store.QuestionStore.ListByUser.
func (s *QuestionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Question, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, subject_id, chapter_id, question_text, syllabus_context, created_at
		 FROM questions WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.ID, &question.UserID, &question.SubjectID, &question.ChapterID,
			&question.QuestionText, &question.SyllabusContext, &question.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return questions, nil
}
