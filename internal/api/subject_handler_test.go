package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerceprecision/cpe-api/internal/domain"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// mockSubjectStore implements store.SubjectStore over fixed catalog data.
type mockSubjectStore struct {
	subjects []*domain.Subject
	chapters map[uuid.UUID][]*domain.Chapter
}

func (m *mockSubjectStore) List(ctx context.Context) ([]*domain.Subject, error) {
	return m.subjects, nil
}

func (m *mockSubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	for _, subject := range m.subjects {
		if subject.ID == id {
			return subject, nil
		}
	}
	return nil, store.ErrSubjectNotFound
}

func (m *mockSubjectStore) ListChapters(ctx context.Context, subjectID uuid.UUID) ([]*domain.Chapter, error) {
	chapters, ok := m.chapters[subjectID]
	if !ok {
		return nil, store.ErrSubjectNotFound
	}
	return chapters, nil
}

func (m *mockSubjectStore) GetChapter(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	for _, chapters := range m.chapters {
		for _, chapter := range chapters {
			if chapter.ID == chapterID {
				return chapter, nil
			}
		}
	}
	return nil, store.ErrChapterNotFound
}

func newCatalog() *mockSubjectStore {
	accountancy := &domain.Subject{ID: uuid.New(), Name: "Accountancy", Code: "ACC"}
	economics := &domain.Subject{ID: uuid.New(), Name: "Economics", Code: "ECO"}

	return &mockSubjectStore{
		subjects: []*domain.Subject{accountancy, economics},
		chapters: map[uuid.UUID][]*domain.Chapter{
			accountancy.ID: {
				{ID: uuid.New(), SubjectID: accountancy.ID, Name: "Accounting for Partnership Firms", DisplayOrder: 1},
				{ID: uuid.New(), SubjectID: accountancy.ID, Name: "Depreciation", DisplayOrder: 2},
			},
			economics.ID: {},
		},
	}
}

func TestListSubjects(t *testing.T) {
	t.Parallel()

	catalog := newCatalog()
	handler := NewSubjectHandler(catalog)

	r := httptest.NewRequest("GET", "/subjects", nil)
	w := httptest.NewRecorder()
	handler.ListSubjects(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var subjects []*domain.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subjects))
	assert.Len(t, subjects, 2)
}

func TestListChapters(t *testing.T) {
	t.Parallel()

	catalog := newCatalog()
	handler := NewSubjectHandler(catalog)

	subjectID := catalog.subjects[0].ID
	r := httptest.NewRequest("GET", "/subjects/"+subjectID.String()+"/chapters", nil)
	r = withPathParam(r, "subjectID", subjectID.String())
	w := httptest.NewRecorder()
	handler.ListChapters(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var chapters []*domain.Chapter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapters))
	require.Len(t, chapters, 2)
	assert.Equal(t, "Accounting for Partnership Firms", chapters[0].Name)
}

func TestListChaptersUnknownSubject(t *testing.T) {
	t.Parallel()

	handler := NewSubjectHandler(newCatalog())

	unknown := uuid.New()
	r := httptest.NewRequest("GET", "/subjects/"+unknown.String()+"/chapters", nil)
	r = withPathParam(r, "subjectID", unknown.String())
	w := httptest.NewRecorder()
	handler.ListChapters(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Subject not found")
}

func TestListChaptersInvalidSubjectID(t *testing.T) {
	t.Parallel()

	handler := NewSubjectHandler(newCatalog())

	r := httptest.NewRequest("GET", "/subjects/garbage/chapters", nil)
	r = withPathParam(r, "subjectID", "garbage")
	w := httptest.NewRecorder()
	handler.ListChapters(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
