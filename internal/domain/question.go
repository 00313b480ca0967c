package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinQuestionLength is the minimum number of characters a question must have.
// Anything shorter is rejected before the verification pipeline is invoked.
const MinQuestionLength = 10

// MaxQuestionLength bounds question text to keep prompts within model limits.
const MaxQuestionLength = 5000

// Common validation errors for Question
var (
	ErrEmptyQuestionID     = errors.New("question ID cannot be empty")
	ErrEmptyQuestionUserID = errors.New("question user ID cannot be empty")
	ErrQuestionTooShort    = errors.New("question text must be at least 10 characters long")
	ErrQuestionTooLong     = errors.New("question text must be at most 5000 characters long")
)

// Question represents a single curriculum question submitted by a user.
// It is immutable once created; the answer produced by the verification
// pipeline is stored separately as an Answer.
type Question struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	SubjectID       uuid.UUID  `json:"subject_id"`
	ChapterID       *uuid.UUID `json:"chapter_id,omitempty"`
	QuestionText    string     `json:"question_text"`
	SyllabusContext string     `json:"-"` // Optional retrieval context, not exposed in responses
	CreatedAt       time.Time  `json:"created_at"`
}

// NewQuestion creates a new Question for the given user and subject.
// chapterID may be nil when the user did not narrow the question to a chapter.
// Returns an error if validation fails.
func NewQuestion(
	userID, subjectID uuid.UUID,
	chapterID *uuid.UUID,
	questionText, syllabusContext string,
) (*Question, error) {
	question := &Question{
		ID:              uuid.New(),
		UserID:          userID,
		SubjectID:       subjectID,
		ChapterID:       chapterID,
		QuestionText:    questionText,
		SyllabusContext: syllabusContext,
		CreatedAt:       time.Now().UTC(),
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	return question, nil
}

// Validate checks if the Question has valid data.
// Returns an error if any field fails validation.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyQuestionID
	}

	if q.UserID == uuid.Nil {
		return ErrEmptyQuestionUserID
	}

	if q.SubjectID == uuid.Nil {
		return ErrEmptySubjectID
	}

	if len(q.QuestionText) < MinQuestionLength {
		return ErrQuestionTooShort
	}

	if len(q.QuestionText) > MaxQuestionLength {
		return ErrQuestionTooLong
	}

	return nil
}
