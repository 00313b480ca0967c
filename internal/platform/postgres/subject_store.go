package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// SubjectStore implements the store.SubjectStore interface using a
// PostgreSQL database as the storage backend. The syllabus catalog is
// seeded by migrations, so this store only reads.
type SubjectStore struct {
	db store.DBTX
}

// NewSubjectStore creates a new PostgreSQL implementation of the
// SubjectStore interface.
func NewSubjectStore(db store.DBTX) *SubjectStore {
	return &SubjectStore{db: db}
}

// Ensure SubjectStore implements store.SubjectStore
var _ store.SubjectStore = (*SubjectStore)(nil)

// List implements store.SubjectStore.List.
func (s *SubjectStore) List(ctx context.Context) ([]*domain.Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, code, description, created_at
		 FROM subjects ORDER BY name`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var subjects []*domain.Subject
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Code,
			&subject.Description, &subject.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		subjects = append(subjects, &subject)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return subjects, nil
}

// GetByID implements store.SubjectStore.GetByID.
func (s *SubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	var subject domain.Subject
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, description, created_at
		 FROM subjects WHERE id = $1`,
		id).Scan(&subject.ID, &subject.Name, &subject.Code,
		&subject.Description, &subject.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSubjectNotFound
		}
		return nil, MapError(err)
	}

	return &subject, nil
}

// ListChapters implements store.SubjectStore.ListChapters. The subject's
// existence is checked first so an unknown subject ID is distinguishable
// from a subject that simply has no chapters.
func (s *SubjectStore) ListChapters(ctx context.Context, subjectID uuid.UUID) ([]*domain.Chapter, error) {
	if _, err := s.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject_id, name, display_order
		 FROM chapters WHERE subject_id = $1 ORDER BY display_order`,
		subjectID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var chapters []*domain.Chapter
	for rows.Next() {
		var chapter domain.Chapter
		if err := rows.Scan(&chapter.ID, &chapter.SubjectID,
			&chapter.Name, &chapter.DisplayOrder); err != nil {
			return nil, MapError(err)
		}
		chapters = append(chapters, &chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return chapters, nil
}

// GetChapter implements store.SubjectStore.GetChapter.
func (s *SubjectStore) GetChapter(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	var chapter domain.Chapter
	err := s.db.QueryRowContext(ctx,
		`SELECT id, subject_id, name, display_order
		 FROM chapters WHERE id = $1`,
		chapterID).Scan(&chapter.ID, &chapter.SubjectID,
		&chapter.Name, &chapter.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChapterNotFound
		}
		return nil, MapError(err)
	}

	return &chapter, nil
}
