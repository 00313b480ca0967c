package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/api/shared"
	"github.com/commerceprecision/cpe-api/internal/service"
)

// Default and maximum page sizes for the question history endpoint.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// QuestionAsker is the slice of service.QuestionService the handler needs.
type QuestionAsker interface {
	Ask(ctx context.Context, req service.AskRequest) (*service.AskResult, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*service.HistoryEntry, error)
	Get(ctx context.Context, userID, questionID uuid.UUID) (*service.HistoryEntry, error)
}

// QuestionHandler handles question submission and history retrieval.
type QuestionHandler struct {
	questionService QuestionAsker
}

// NewQuestionHandler creates a new QuestionHandler with the given dependencies.
func NewQuestionHandler(questionService QuestionAsker) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// AskQuestion handles POST /questions. The caller blocks while the
// verification pipeline runs; both succeeded and failed runs return 201 with
// the recorded outcome. Only malformed requests and infrastructure failures
// produce error statuses.
func (h *QuestionHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AskQuestionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.questionService.Ask(r.Context(), service.AskRequest{
		UserID:          userID,
		SubjectID:       req.SubjectID,
		ChapterID:       req.ChapterID,
		QuestionText:    req.QuestionText,
		SyllabusContext: req.SyllabusContext,
		MaxMarks:        req.MaxMarks,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, QuestionResponse{
		Question: result.Question,
		Answer:   newAnswerResponse(result.Answer, result.Pipeline.LowConfidence),
	})
}

// GetHistory handles GET /questions. Supports limit and offset query
// parameters for paging.
func (h *QuestionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := getQueryInt(r, "limit", defaultHistoryLimit)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := getQueryInt(r, "offset", 0)

	entries, err := h.questionService.History(r.Context(), userID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	response := HistoryResponse{
		Entries: make([]QuestionResponse, 0, len(entries)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, newQuestionResponse(entry))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetQuestion handles GET /questions/{questionID}. Questions are private to
// the user who asked them.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	questionID, ok := getPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	entry, err := h.questionService.Get(r.Context(), userID, questionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newQuestionResponse(entry))
}
