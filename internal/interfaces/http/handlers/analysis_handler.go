package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/refsign-check/internal/application/consistency"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// AnalysisHandler exposes analysis sessions and one-shot checks.
type AnalysisHandler struct {
	svc    consistency.Service
	logger logging.Logger
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(svc consistency.Service, logger logging.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisHandler{svc: svc, logger: logger.Named("analysis_handler")}
}

// AnalyzeRequest carries the full document text.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// LanguageRequest switches a session's analyzer.
type LanguageRequest struct {
	Language string `json:"language"`
}

// CreateSession handles POST /api/v1/sessions.
func (h *AnalysisHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req consistency.CreateSessionInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	sess, err := h.svc.CreateSession(r.Context(), &req)
	if err != nil {
		h.fail(w, "failed to create session", err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /api/v1/sessions/{id}.
func (h *AnalysisHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "failed to get session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (h *AnalysisHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analyze handles POST /api/v1/sessions/{id}/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	res, err := h.svc.Analyze(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.fail(w, "analysis failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SetMultiWord handles POST /api/v1/sessions/{id}/multi-word. Without
// "enabled" the stem is toggled.
func (h *AnalysisHandler) SetMultiWord(w http.ResponseWriter, r *http.Request) {
	var req consistency.MultiWordInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	req.SessionID = chi.URLParam(r, "id")
	h.writeMutation(w, "failed to set multi-word stem", func() (*consistency.MutationResult, error) {
		return h.svc.SetMultiWord(r.Context(), &req)
	})
}

// ToggleClearedError handles POST /api/v1/sessions/{id}/cleared-errors/{bz}.
func (h *AnalysisHandler) ToggleClearedError(w http.ResponseWriter, r *http.Request) {
	id, bz := chi.URLParam(r, "id"), chi.URLParam(r, "bz")
	if bz == "" {
		writeAppError(w, errors.New(errors.ErrCodeValidation, "reference sign is required"))
		return
	}
	h.writeMutation(w, "failed to toggle cleared error", func() (*consistency.MutationResult, error) {
		return h.svc.ToggleClearedError(r.Context(), id, bz)
	})
}

// ToggleClearedPosition handles POST /api/v1/sessions/{id}/cleared-positions.
func (h *AnalysisHandler) ToggleClearedPosition(w http.ResponseWriter, r *http.Request) {
	var req consistency.PositionInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	req.SessionID = chi.URLParam(r, "id")
	h.writeMutation(w, "failed to toggle cleared position", func() (*consistency.MutationResult, error) {
		return h.svc.ToggleClearedPosition(r.Context(), &req)
	})
}

// RestoreAllErrors handles DELETE /api/v1/sessions/{id}/cleared.
func (h *AnalysisHandler) RestoreAllErrors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.writeMutation(w, "failed to restore errors", func() (*consistency.MutationResult, error) {
		return h.svc.RestoreAllErrors(r.Context(), id)
	})
}

// SetLanguage handles PUT /api/v1/sessions/{id}/language.
func (h *AnalysisHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	h.writeMutation(w, "failed to set language", func() (*consistency.MutationResult, error) {
		return h.svc.SetLanguage(r.Context(), id, req.Language)
	})
}

// Check handles POST /api/v1/check.
func (h *AnalysisHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req consistency.CheckInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	res, err := h.svc.Check(r.Context(), &req)
	if err != nil {
		h.fail(w, "check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AnalysisHandler) writeMutation(w http.ResponseWriter, msg string, fn func() (*consistency.MutationResult, error)) {
	out, err := fn()
	if err != nil {
		h.fail(w, msg, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// fail logs server-side failures at Error and client mistakes at Debug.
func (h *AnalysisHandler) fail(w http.ResponseWriter, msg string, err error) {
	if errors.HTTPStatusForCode(errors.GetCode(err)) >= http.StatusInternalServerError {
		h.logger.Error(msg, logging.Err(err))
	} else {
		h.logger.Debug(msg, logging.Err(err))
	}
	writeAppError(w, err)
}

//Personal.AI order the ending
