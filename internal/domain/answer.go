package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AnswerStatus represents the terminal state of a verification pipeline run.
type AnswerStatus string

// Possible answer status values
const (
	AnswerStatusSucceeded AnswerStatus = "succeeded"
	AnswerStatusFailed    AnswerStatus = "failed"
)

// Common validation errors for Answer
var (
	ErrEmptyAnswerID         = errors.New("answer ID cannot be empty")
	ErrEmptyAnswerQuestionID = errors.New("answer question ID cannot be empty")
	ErrEmptyFinalAnswer      = errors.New("final answer text cannot be empty")
	ErrInvalidAnswerStatus   = errors.New("invalid answer status")
	ErrConfidenceOutOfRange  = errors.New("confidence score must be between 0 and 100")
)

// Answer is the persisted record of one verification pipeline run for a
// Question. The four layer outputs are stored as raw JSON so the storage
// layer does not depend on the pipeline's stage types.
type Answer struct {
	ID               uuid.UUID       `json:"id"`
	QuestionID       uuid.UUID       `json:"question_id"`
	GeneratorOutput  json.RawMessage `json:"generator_output"`
	ValidatorOutput  json.RawMessage `json:"validator_output"`
	AuditorOutput    json.RawMessage `json:"auditor_output"`
	ScorerOutput     json.RawMessage `json:"scorer_output"`
	FinalAnswer      string          `json:"final_answer"`
	ConfidenceScore  float64         `json:"confidence_score"`
	Retries          int             `json:"retries"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	Status           AnswerStatus    `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewAnswer creates a new Answer for the given question.
// Returns an error if validation fails.
func NewAnswer(questionID uuid.UUID, finalAnswer string, status AnswerStatus) (*Answer, error) {
	answer := &Answer{
		ID:          uuid.New(),
		QuestionID:  questionID,
		FinalAnswer: finalAnswer,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if err := answer.Validate(); err != nil {
		return nil, err
	}

	return answer, nil
}

// Validate checks if the Answer has valid data.
// Returns an error if any field fails validation.
func (a *Answer) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAnswerID
	}

	if a.QuestionID == uuid.Nil {
		return ErrEmptyAnswerQuestionID
	}

	if a.FinalAnswer == "" {
		return ErrEmptyFinalAnswer
	}

	if !isValidAnswerStatus(a.Status) {
		return ErrInvalidAnswerStatus
	}

	if a.ConfidenceScore < 0 || a.ConfidenceScore > 100 {
		return ErrConfidenceOutOfRange
	}

	return nil
}

// isValidAnswerStatus checks if the given status is a valid AnswerStatus.
func isValidAnswerStatus(status AnswerStatus) bool {
	switch status {
	case AnswerStatusSucceeded, AnswerStatusFailed:
		return true
	default:
		return false
	}
}
