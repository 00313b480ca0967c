package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/pipeline"
	"github.com/commerceprecision/cpe-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStore implements store.UserStore with overridable functions.
type mockUserStore struct {
	createFn          func(ctx context.Context, user *domain.User) error
	getByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByAccessCodeFn func(ctx context.Context, accessCode string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByAccessCode(ctx context.Context, accessCode string) (*domain.User, error) {
	if m.getByAccessCodeFn != nil {
		return m.getByAccessCodeFn(ctx, accessCode)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockSubjectStore implements store.SubjectStore over in-memory maps.
type mockSubjectStore struct {
	subjects map[uuid.UUID]*domain.Subject
	chapters map[uuid.UUID]*domain.Chapter
}

func (m *mockSubjectStore) List(ctx context.Context) ([]*domain.Subject, error) {
	subjects := make([]*domain.Subject, 0, len(m.subjects))
	for _, subject := range m.subjects {
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

func (m *mockSubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	if subject, ok := m.subjects[id]; ok {
		return subject, nil
	}
	return nil, store.ErrSubjectNotFound
}

func (m *mockSubjectStore) ListChapters(ctx context.Context, subjectID uuid.UUID) ([]*domain.Chapter, error) {
	if _, ok := m.subjects[subjectID]; !ok {
		return nil, store.ErrSubjectNotFound
	}
	var chapters []*domain.Chapter
	for _, chapter := range m.chapters {
		if chapter.SubjectID == subjectID {
			chapters = append(chapters, chapter)
		}
	}
	return chapters, nil
}

func (m *mockSubjectStore) GetChapter(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	if chapter, ok := m.chapters[chapterID]; ok {
		return chapter, nil
	}
	return nil, store.ErrChapterNotFound
}

// mockQuestionStore implements store.QuestionStore and records created
// questions in memory.
type mockQuestionStore struct {
	created  []*domain.Question
	createFn func(ctx context.Context, question *domain.Question) error
}

func (m *mockQuestionStore) Create(ctx context.Context, question *domain.Question) error {
	if m.createFn != nil {
		return m.createFn(ctx, question)
	}
	m.created = append(m.created, question)
	return nil
}

func (m *mockQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	for _, question := range m.created {
		if question.ID == id {
			return question, nil
		}
	}
	return nil, store.ErrQuestionNotFound
}

func (m *mockQuestionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Question, error) {
	var questions []*domain.Question
	for _, question := range m.created {
		if question.UserID == userID {
			questions = append(questions, question)
		}
	}
	return questions, nil
}

func (m *mockQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore { return m }

// mockAnswerStore implements store.AnswerStore and records created answers.
type mockAnswerStore struct {
	created  []*domain.Answer
	createFn func(ctx context.Context, answer *domain.Answer) error
}

func (m *mockAnswerStore) Create(ctx context.Context, answer *domain.Answer) error {
	if m.createFn != nil {
		return m.createFn(ctx, answer)
	}
	m.created = append(m.created, answer)
	return nil
}

func (m *mockAnswerStore) GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	for _, answer := range m.created {
		if answer.QuestionID == questionID {
			return answer, nil
		}
	}
	return nil, store.ErrAnswerNotFound
}

func (m *mockAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore { return m }

// mockProcessor implements AnswerProcessor and records its inputs.
type mockProcessor struct {
	inputs    []pipeline.Input
	processFn func(ctx context.Context, in pipeline.Input) (*pipeline.FinalAnswer, error)
}

func (m *mockProcessor) Process(ctx context.Context, in pipeline.Input) (*pipeline.FinalAnswer, error) {
	m.inputs = append(m.inputs, in)
	if m.processFn != nil {
		return m.processFn(ctx, in)
	}
	return succeededOutcome(), nil
}

// succeededOutcome is a minimal passing pipeline result.
func succeededOutcome() *pipeline.FinalAnswer {
	return &pipeline.FinalAnswer{
		FinalAnswer: "Management is the process of getting things done through others.",
		Generator: pipeline.GeneratorOutput{
			Answer:     "Management is the process of getting things done through others.",
			Confidence: 0.9,
		},
		Validator:        pipeline.ValidatorOutput{SyllabusAlignment: "aligned", AlignmentScore: 90},
		Auditor:          pipeline.AuditorOutput{Severity: pipeline.SeverityNone},
		Scorer:           pipeline.ScorerOutput{PredictedScore: 4.5, MaxMarks: 5},
		ConfidenceScore:  92.5,
		Retries:          0,
		ProcessingTimeMs: 3500,
		Status:           pipeline.StatusSucceeded,
	}
}
