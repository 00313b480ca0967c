package api

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/service"
)

// Common request/response structures

// LoginRequest defines the payload for the access code login endpoint.
type LoginRequest struct {
	AccessCode string `json:"access_code" validate:"required,min=8,max=72"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AskQuestionRequest defines the payload for submitting a question.
type AskQuestionRequest struct {
	SubjectID       uuid.UUID  `json:"subject_id"          validate:"required"`
	ChapterID       *uuid.UUID `json:"chapter_id,omitempty"`
	QuestionText    string     `json:"question_text"       validate:"required,min=10,max=5000"`
	SyllabusContext string     `json:"syllabus_context,omitempty" validate:"max=20000"`
	MaxMarks        float64    `json:"max_marks,omitempty" validate:"omitempty,gt=0,lte=20"`
}

// AnswerResponse is the client-facing view of one verification pipeline run.
// The four layer outputs are passed through as raw JSON.
type AnswerResponse struct {
	ID               uuid.UUID       `json:"id"`
	QuestionID       uuid.UUID       `json:"question_id"`
	FinalAnswer      string          `json:"final_answer"`
	Status           string          `json:"status"`
	ConfidenceScore  float64         `json:"confidence_score"`
	LowConfidence    bool            `json:"low_confidence,omitempty"`
	Retries          int             `json:"retries"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	GeneratorOutput  json.RawMessage `json:"generator_output,omitempty"`
	ValidatorOutput  json.RawMessage `json:"validator_output,omitempty"`
	AuditorOutput    json.RawMessage `json:"auditor_output,omitempty"`
	ScorerOutput     json.RawMessage `json:"scorer_output,omitempty"`
}

// QuestionResponse pairs a question with its answer, when one was recorded.
type QuestionResponse struct {
	Question *domain.Question `json:"question"`
	Answer   *AnswerResponse  `json:"answer,omitempty"`
}

// HistoryResponse is a page of the user's past questions, most recent first.
type HistoryResponse struct {
	Entries []QuestionResponse `json:"entries"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

// newAnswerResponse converts a persisted answer into its API representation.
// A nil answer maps to nil, which happens only when persistence was
// interrupted mid-transaction.
func newAnswerResponse(answer *domain.Answer, lowConfidence bool) *AnswerResponse {
	if answer == nil {
		return nil
	}
	return &AnswerResponse{
		ID:               answer.ID,
		QuestionID:       answer.QuestionID,
		FinalAnswer:      answer.FinalAnswer,
		Status:           string(answer.Status),
		ConfidenceScore:  answer.ConfidenceScore,
		LowConfidence:    lowConfidence,
		Retries:          answer.Retries,
		ProcessingTimeMs: answer.ProcessingTimeMs,
		GeneratorOutput:  answer.GeneratorOutput,
		ValidatorOutput:  answer.ValidatorOutput,
		AuditorOutput:    answer.AuditorOutput,
		ScorerOutput:     answer.ScorerOutput,
	}
}

// newQuestionResponse converts a history entry into its API representation.
func newQuestionResponse(entry *service.HistoryEntry) QuestionResponse {
	return QuestionResponse{
		Question: entry.Question,
		Answer:   newAnswerResponse(entry.Answer, false),
	}
}
