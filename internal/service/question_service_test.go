package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/pipeline"
	"github.com/commerceprecision/cpe-api/internal/store"
)

type questionServiceFixture struct {
	svc           *QuestionService
	mock          sqlmock.Sqlmock
	questionStore *mockQuestionStore
	answerStore   *mockAnswerStore
	subjectStore  *mockSubjectStore
	processor     *mockProcessor
	subjectID     uuid.UUID
	chapterID     uuid.UUID
}

func newQuestionServiceFixture(t *testing.T) *questionServiceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	subjectID := uuid.New()
	chapterID := uuid.New()
	subjectStore := &mockSubjectStore{
		subjects: map[uuid.UUID]*domain.Subject{
			subjectID: {ID: subjectID, Name: "Business Studies", Code: "BST"},
		},
		chapters: map[uuid.UUID]*domain.Chapter{
			chapterID: {ID: chapterID, SubjectID: subjectID, Name: "Principles of Management", DisplayOrder: 2},
		},
	}

	questionStore := &mockQuestionStore{}
	answerStore := &mockAnswerStore{}
	processor := &mockProcessor{}

	svc, err := NewQuestionService(db, questionStore, answerStore, subjectStore, processor, testLogger())
	require.NoError(t, err)

	return &questionServiceFixture{
		svc:           svc,
		mock:          mock,
		questionStore: questionStore,
		answerStore:   answerStore,
		subjectStore:  subjectStore,
		processor:     processor,
		subjectID:     subjectID,
		chapterID:     chapterID,
	}
}

func TestNewQuestionServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewQuestionService(nil, &mockQuestionStore{}, &mockAnswerStore{}, &mockSubjectStore{}, &mockProcessor{}, testLogger())
	assert.ErrorContains(t, err, "db cannot be nil")

	_, err = NewQuestionService(db, nil, &mockAnswerStore{}, &mockSubjectStore{}, &mockProcessor{}, testLogger())
	assert.ErrorContains(t, err, "questionStore cannot be nil")

	_, err = NewQuestionService(db, &mockQuestionStore{}, &mockAnswerStore{}, &mockSubjectStore{}, nil, testLogger())
	assert.ErrorContains(t, err, "processor cannot be nil")
}

func TestAskPersistsQuestionAndAnswer(t *testing.T) {
	f := newQuestionServiceFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	userID := uuid.New()
	result, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       userID,
		SubjectID:    f.subjectID,
		ChapterID:    &f.chapterID,
		QuestionText: "Explain the principles of scientific management.",
		MaxMarks:     5,
	})
	require.NoError(t, err)

	// The pipeline saw the resolved subject and chapter names.
	require.Len(t, f.processor.inputs, 1)
	assert.Equal(t, "Business Studies", f.processor.inputs[0].Subject)
	assert.Equal(t, "Principles of Management", f.processor.inputs[0].Chapter)
	assert.Equal(t, float64(5), f.processor.inputs[0].MaxMarks)

	// Question and answer were written inside the transaction.
	require.Len(t, f.questionStore.created, 1)
	require.Len(t, f.answerStore.created, 1)
	assert.Equal(t, userID, f.questionStore.created[0].UserID)

	answer := f.answerStore.created[0]
	assert.Equal(t, result.Question.ID, answer.QuestionID)
	assert.Equal(t, domain.AnswerStatusSucceeded, answer.Status)
	assert.Equal(t, 92.5, answer.ConfidenceScore)
	assert.JSONEq(t, `{
		"answer": "Management is the process of getting things done through others.",
		"key_points": null,
		"referenced_concepts": null,
		"confidence": 0.9
	}`, string(answer.GeneratorOutput))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAskRejectsUnknownSubject(t *testing.T) {
	f := newQuestionServiceFixture(t)

	_, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       uuid.New(),
		SubjectID:    uuid.New(),
		QuestionText: "Explain the principles of scientific management.",
	})
	assert.ErrorIs(t, err, store.ErrSubjectNotFound)
	assert.Empty(t, f.processor.inputs, "pipeline must not run for an unknown subject")
}

func TestAskRejectsChapterFromAnotherSubject(t *testing.T) {
	f := newQuestionServiceFixture(t)

	// A chapter that exists but belongs to a different subject.
	foreignChapter := uuid.New()
	f.subjectStore.chapters[foreignChapter] = &domain.Chapter{
		ID:        foreignChapter,
		SubjectID: uuid.New(),
		Name:      "Depreciation",
	}

	_, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       uuid.New(),
		SubjectID:    f.subjectID,
		ChapterID:    &foreignChapter,
		QuestionText: "Explain the principles of scientific management.",
	})
	assert.ErrorIs(t, err, ErrChapterMismatch)
	assert.Empty(t, f.processor.inputs)
}

func TestAskRejectsInvalidQuestionText(t *testing.T) {
	f := newQuestionServiceFixture(t)

	_, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       uuid.New(),
		SubjectID:    f.subjectID,
		QuestionText: "short",
	})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Empty(t, f.processor.inputs, "pipeline must not run for an invalid question")
}

func TestAskPersistsFailedRuns(t *testing.T) {
	f := newQuestionServiceFixture(t)

	f.processor.processFn = func(ctx context.Context, in pipeline.Input) (*pipeline.FinalAnswer, error) {
		outcome := succeededOutcome()
		outcome.Status = pipeline.StatusFailed
		outcome.FinalAnswer = "We apologize, but we were unable to generate a reliable answer."
		outcome.ConfidenceScore = 0
		outcome.Retries = 2
		return outcome, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       uuid.New(),
		SubjectID:    f.subjectID,
		QuestionText: "Explain the principles of scientific management.",
	})
	require.NoError(t, err, "a failed pipeline run is a result, not an error")

	require.Len(t, f.answerStore.created, 1)
	assert.Equal(t, domain.AnswerStatusFailed, f.answerStore.created[0].Status)
	assert.Equal(t, float64(0), f.answerStore.created[0].ConfidenceScore)
	assert.Equal(t, 2, f.answerStore.created[0].Retries)
	assert.Equal(t, pipeline.StatusFailed, result.Pipeline.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAskDoesNotPersistOnCancellation(t *testing.T) {
	f := newQuestionServiceFixture(t)

	f.processor.processFn = func(ctx context.Context, in pipeline.Input) (*pipeline.FinalAnswer, error) {
		return succeededOutcome(), context.Canceled
	}

	_, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       uuid.New(),
		SubjectID:    f.subjectID,
		QuestionText: "Explain the principles of scientific management.",
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.questionStore.created)
	assert.Empty(t, f.answerStore.created)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAskRollsBackWhenAnswerInsertFails(t *testing.T) {
	f := newQuestionServiceFixture(t)

	insertErr := store.ErrInvalidEntity
	f.answerStore.createFn = func(ctx context.Context, answer *domain.Answer) error {
		return insertErr
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Ask(context.Background(), AskRequest{
		UserID:       uuid.New(),
		SubjectID:    f.subjectID,
		QuestionText: "Explain the principles of scientific management.",
	})
	assert.ErrorIs(t, err, insertErr)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHistoryPairsQuestionsWithAnswers(t *testing.T) {
	f := newQuestionServiceFixture(t)

	userID := uuid.New()
	question, err := domain.NewQuestion(userID, f.subjectID, nil,
		"What is the importance of coordination?", "")
	require.NoError(t, err)
	f.questionStore.created = append(f.questionStore.created, question)

	answer, err := domain.NewAnswer(question.ID, "Coordination is the essence of management.", domain.AnswerStatusSucceeded)
	require.NoError(t, err)
	f.answerStore.created = append(f.answerStore.created, answer)

	// A second question whose answer write never happened.
	orphan, err := domain.NewQuestion(userID, f.subjectID, nil,
		"Define management as a process.", "")
	require.NoError(t, err)
	f.questionStore.created = append(f.questionStore.created, orphan)

	entries, err := f.svc.History(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, answer.ID, entries[0].Answer.ID)
	assert.Nil(t, entries[1].Answer, "a missing answer must not fail the whole history")
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newQuestionServiceFixture(t)

	owner := uuid.New()
	question, err := domain.NewQuestion(owner, f.subjectID, nil,
		"What is the importance of coordination?", "")
	require.NoError(t, err)
	f.questionStore.created = append(f.questionStore.created, question)

	_, err = f.svc.Get(context.Background(), uuid.New(), question.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	entry, err := f.svc.Get(context.Background(), owner, question.ID)
	require.NoError(t, err)
	assert.Equal(t, question.ID, entry.Question.ID)
}

func TestGetUnknownQuestion(t *testing.T) {
	f := newQuestionServiceFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrQuestionNotFound)
}
