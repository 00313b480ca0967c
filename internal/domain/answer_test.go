package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewAnswer(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	finalAnswer := "Management is the process of getting things done through others."

	answer, err := NewAnswer(questionID, finalAnswer, AnswerStatusSucceeded)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if answer.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if answer.QuestionID != questionID {
		t.Errorf("Expected question ID %s, got %s", questionID, answer.QuestionID)
	}

	if answer.Status != AnswerStatusSucceeded {
		t.Errorf("Expected status %s, got %s", AnswerStatusSucceeded, answer.Status)
	}

	if answer.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Missing question ID
	if _, err := NewAnswer(uuid.Nil, finalAnswer, AnswerStatusSucceeded); err != ErrEmptyAnswerQuestionID {
		t.Errorf("Expected error %v, got %v", ErrEmptyAnswerQuestionID, err)
	}

	// Missing final answer text
	if _, err := NewAnswer(questionID, "", AnswerStatusFailed); err != ErrEmptyFinalAnswer {
		t.Errorf("Expected error %v, got %v", ErrEmptyFinalAnswer, err)
	}

	// Bad status
	if _, err := NewAnswer(questionID, finalAnswer, AnswerStatus("pending")); err != ErrInvalidAnswerStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidAnswerStatus, err)
	}
}

func TestAnswerValidateConfidence(t *testing.T) {
	t.Parallel()

	answer := Answer{
		ID:          uuid.New(),
		QuestionID:  uuid.New(),
		FinalAnswer: "A valid answer.",
		Status:      AnswerStatusSucceeded,
	}

	answer.ConfidenceScore = 100
	if err := answer.Validate(); err != nil {
		t.Errorf("Expected no error at confidence 100, got %v", err)
	}

	answer.ConfidenceScore = 101
	if err := answer.Validate(); err != ErrConfidenceOutOfRange {
		t.Errorf("Expected error %v, got %v", ErrConfidenceOutOfRange, err)
	}

	answer.ConfidenceScore = -1
	if err := answer.Validate(); err != ErrConfidenceOutOfRange {
		t.Errorf("Expected error %v, got %v", ErrConfidenceOutOfRange, err)
	}
}
