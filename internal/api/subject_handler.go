package api

import (
	"net/http"

	"github.com/commerceprecision/cpe-api/internal/api/shared"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// SubjectHandler serves the read-only syllabus catalog: the fixed set of
// Class 12 Commerce subjects and their chapters.
type SubjectHandler struct {
	subjectStore store.SubjectStore
}

// NewSubjectHandler creates a new SubjectHandler with the given dependencies.
func NewSubjectHandler(subjectStore store.SubjectStore) *SubjectHandler {
	return &SubjectHandler{
		subjectStore: subjectStore,
	}
}

// ListSubjects handles GET /subjects.
func (h *SubjectHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list subjects", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subjects)
}

// ListChapters handles GET /subjects/{subjectID}/chapters.
func (h *SubjectHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := getPathUUID(w, r, "subjectID")
	if !ok {
		return
	}

	chapters, err := h.subjectStore.ListChapters(r.Context(), subjectID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, chapters)
}
