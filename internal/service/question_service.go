package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/pipeline"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// AnswerProcessor runs the verification pipeline for one question. It is
// implemented by pipeline.Orchestrator.
type AnswerProcessor interface {
	Process(ctx context.Context, in pipeline.Input) (*pipeline.FinalAnswer, error)
}

// AskRequest carries one question submission.
type AskRequest struct {
	UserID          uuid.UUID
	SubjectID       uuid.UUID
	ChapterID       *uuid.UUID
	QuestionText    string
	SyllabusContext string
	MaxMarks        float64
}

// AskResult bundles the persisted question and answer with the full pipeline
// outcome for the API layer.
type AskResult struct {
	Question *domain.Question
	Answer   *domain.Answer
	Pipeline *pipeline.FinalAnswer
}

// HistoryEntry pairs a past question with its recorded answer. Answer is nil
// when no answer was recorded, which only happens if persistence was
// interrupted mid-transaction.
type HistoryEntry struct {
	Question *domain.Question
	Answer   *domain.Answer
}

// QuestionService coordinates question validation, the verification
// pipeline, and persistence of the outcome.
type QuestionService struct {
	db            *sql.DB
	questionStore store.QuestionStore
	answerStore   store.AnswerStore
	subjectStore  store.SubjectStore
	processor     AnswerProcessor
	logger        *slog.Logger
}

// NewQuestionService creates a new QuestionService.
// It returns an error if any of the required dependencies are nil.
func NewQuestionService(
	db *sql.DB,
	questionStore store.QuestionStore,
	answerStore store.AnswerStore,
	subjectStore store.SubjectStore,
	processor AnswerProcessor,
	logger *slog.Logger,
) (*QuestionService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if questionStore == nil {
		return nil, errors.New("questionStore cannot be nil")
	}
	if answerStore == nil {
		return nil, errors.New("answerStore cannot be nil")
	}
	if subjectStore == nil {
		return nil, errors.New("subjectStore cannot be nil")
	}
	if processor == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuestionService{
		db:            db,
		questionStore: questionStore,
		answerStore:   answerStore,
		subjectStore:  subjectStore,
		processor:     processor,
		logger:        logger.With(slog.String("component", "question_service")),
	}, nil
}

// Ask validates the submission, runs the verification pipeline and persists
// the question together with its answer in one transaction. The user waits
// synchronously for the result.
func (s *QuestionService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	subject, err := s.subjectStore.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	chapterName := ""
	if req.ChapterID != nil {
		chapter, err := s.subjectStore.GetChapter(ctx, *req.ChapterID)
		if err != nil {
			return nil, err
		}
		if chapter.SubjectID != req.SubjectID {
			return nil, ErrChapterMismatch
		}
		chapterName = chapter.Name
	}

	question, err := domain.NewQuestion(req.UserID, req.SubjectID, req.ChapterID,
		req.QuestionText, req.SyllabusContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	final, err := s.processor.Process(ctx, pipeline.Input{
		Question:        question.QuestionText,
		Subject:         subject.Name,
		Chapter:         chapterName,
		SyllabusContext: question.SyllabusContext,
		MaxMarks:        req.MaxMarks,
	})
	if err != nil {
		// Only caller cancellation surfaces here; there is nothing worth
		// persisting for a run the user walked away from.
		return nil, err
	}

	answer, err := buildAnswer(question.ID, final)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.questionStore.WithTx(tx).Create(ctx, question); err != nil {
			return err
		}
		return s.answerStore.WithTx(tx).Create(ctx, answer)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist question and answer: %w", err)
	}

	s.logger.InfoContext(ctx, "question answered",
		"question_id", question.ID,
		"user_id", question.UserID,
		"status", answer.Status,
		"confidence_score", answer.ConfidenceScore,
		"retries", answer.Retries)

	return &AskResult{Question: question, Answer: answer, Pipeline: final}, nil
}

// History returns the user's past questions, most recent first, each paired
// with its recorded answer.
func (s *QuestionService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HistoryEntry, error) {
	questions, err := s.questionStore.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]*HistoryEntry, 0, len(questions))
	for _, question := range questions {
		answer, err := s.answerStore.GetByQuestionID(ctx, question.ID)
		if err != nil && !errors.Is(err, store.ErrAnswerNotFound) {
			return nil, err
		}
		entries = append(entries, &HistoryEntry{Question: question, Answer: answer})
	}

	return entries, nil
}

// Get returns one question and its answer, enforcing ownership.
// Requests for another user's question return ErrNotOwned.
func (s *QuestionService) Get(ctx context.Context, userID, questionID uuid.UUID) (*HistoryEntry, error) {
	question, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.UserID != userID {
		return nil, ErrNotOwned
	}

	answer, err := s.answerStore.GetByQuestionID(ctx, questionID)
	if err != nil && !errors.Is(err, store.ErrAnswerNotFound) {
		return nil, err
	}

	return &HistoryEntry{Question: question, Answer: answer}, nil
}

// buildAnswer converts a pipeline outcome into the persisted Answer record.
func buildAnswer(questionID uuid.UUID, final *pipeline.FinalAnswer) (*domain.Answer, error) {
	status := domain.AnswerStatusSucceeded
	if final.Status == pipeline.StatusFailed {
		status = domain.AnswerStatusFailed
	}

	answer, err := domain.NewAnswer(questionID, final.FinalAnswer, status)
	if err != nil {
		return nil, fmt.Errorf("failed to build answer record: %w", err)
	}

	answer.ConfidenceScore = final.ConfidenceScore
	answer.Retries = final.Retries
	answer.ProcessingTimeMs = final.ProcessingTimeMs

	if answer.GeneratorOutput, err = json.Marshal(final.Generator); err != nil {
		return nil, fmt.Errorf("failed to marshal generator output: %w", err)
	}
	if answer.ValidatorOutput, err = json.Marshal(final.Validator); err != nil {
		return nil, fmt.Errorf("failed to marshal validator output: %w", err)
	}
	if answer.AuditorOutput, err = json.Marshal(final.Auditor); err != nil {
		return nil, fmt.Errorf("failed to marshal auditor output: %w", err)
	}
	if answer.ScorerOutput, err = json.Marshal(final.Scorer); err != nil {
		return nil, fmt.Errorf("failed to marshal scorer output: %w", err)
	}

	return answer, nil
}
