package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Subject and Chapter
var (
	ErrEmptySubjectID   = errors.New("subject ID cannot be empty")
	ErrEmptySubjectName = errors.New("subject name cannot be empty")
	ErrEmptySubjectCode = errors.New("subject code cannot be empty")
	ErrEmptyChapterID   = errors.New("chapter ID cannot be empty")
	ErrEmptyChapterName = errors.New("chapter name cannot be empty")
)

// Subject represents one CBSE Class 12 Commerce subject
// (Accountancy, Economics, Business Studies).
type Subject struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the Subject has valid data.
func (s *Subject) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySubjectID
	}
	if s.Name == "" {
		return ErrEmptySubjectName
	}
	if s.Code == "" {
		return ErrEmptySubjectCode
	}
	return nil
}

// Chapter represents a single chapter within a Subject. Chapters are ordered
// for display by DisplayOrder.
type Chapter struct {
	ID           uuid.UUID `json:"id"`
	SubjectID    uuid.UUID `json:"subject_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
}

// Validate checks if the Chapter has valid data.
func (c *Chapter) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyChapterID
	}
	if c.SubjectID == uuid.Nil {
		return ErrEmptySubjectID
	}
	if c.Name == "" {
		return ErrEmptyChapterName
	}
	return nil
}
