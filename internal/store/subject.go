package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
)

// SubjectStore defines the interface for syllabus catalog persistence.
// The catalog is seeded by migrations and read-only at runtime, so there
// are no write operations.
type SubjectStore interface {
	// List returns all subjects ordered by name.
	List(ctx context.Context) ([]*domain.Subject, error)

	// GetByID retrieves a subject by its unique ID.
	// Returns ErrSubjectNotFound if the subject does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error)

	// ListChapters returns the chapters of a subject ordered by display order.
	// Returns ErrSubjectNotFound if the subject does not exist.
	ListChapters(ctx context.Context, subjectID uuid.UUID) ([]*domain.Chapter, error)

	// GetChapter retrieves a chapter by its unique ID.
	// Returns ErrChapterNotFound if the chapter does not exist.
	GetChapter(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error)
}
