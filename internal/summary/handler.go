package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"travelease/internal/summary/model"
	"travelease/internal/summary/service"
	"travelease/middleware"
	"travelease/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type SummaryHandler struct {
	Service *service.SummaryService
}

func NewSummaryHandler(service *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{Service: service}
}

func (h *SummaryHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

// ListSummaries returns the user's summaries as collapsed tiles.
func (h *SummaryHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	views, err := h.Service.ListTiles(r.Context(), userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to list summaries: %v", err)
		writeError(w, "Failed to retrieve summaries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetSummary returns one tile, expanded when ?expanded=true.
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := summaryID(w, r)
	if !ok {
		return
	}
	expanded, _ := strconv.ParseBool(r.URL.Query().Get("expanded"))

	view, err := h.Service.GetTile(r.Context(), userID, id, expanded)
	if err != nil {
		h.lookupError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RenderSummary returns the rendered content in ?format=json|markdown|html.
func (h *SummaryHandler) RenderSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := summaryID(w, r)
	if !ok {
		return
	}

	out, err := h.Service.Render(r.Context(), userID, id, r.URL.Query().Get("format"))
	if errors.Is(err, service.ErrUnknownFormat) {
		writeError(w, "Unknown format", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.lookupError(w, id, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(out.Body)
}

// CreateSummary stores a summary document sent by the client.
func (h *SummaryHandler) CreateSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.StoreSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.Store(r.Context(), userID, req.Content)
	if errors.Is(err, service.ErrEmptyContent) {
		writeError(w, "Content is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to store summary: %v", err)
		writeError(w, "Failed to store summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Process summarizes a link, stores the result and returns the summary.
func (h *SummaryHandler) Process(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	summary, _, err := h.Service.Process(r.Context(), userID, req.Link)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, model.ProcessResponse{Summary: summary})
	case errors.Is(err, service.ErrNoLink):
		writeError(w, "No link provided", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidLink):
		writeError(w, "Invalid link", http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		logger.Sugar.Warnf("Handler: Summary of %q timed out: %v", req.Link, err)
		writeError(w, "Summary generation timed out", http.StatusGatewayTimeout)
	case errors.Is(err, service.ErrNoSummarizer):
		writeError(w, "Summarizer is not configured", http.StatusServiceUnavailable)
	default:
		logger.Sugar.Errorf("Handler: Failed to process %q: %v", req.Link, err)
		writeError(w, "Failed to generate summary", http.StatusInternalServerError)
	}
}

func (h *SummaryHandler) lookupError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, "Summary not found", http.StatusNotFound)
		return
	}
	logger.Sugar.Errorf("Handler: Failed to load summary %d: %v", id, err)
	writeError(w, "Failed to retrieve summary", http.StatusInternalServerError)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

func summaryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "Invalid summary id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Handler: Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}
