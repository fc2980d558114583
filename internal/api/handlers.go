package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"ragtour/internal/domain"
	"ragtour/internal/usecase"
)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	pipeline *usecase.Pipeline
	log      logrus.FieldLogger
}

// NewHandler creates a Handler serving pipeline.
func NewHandler(pipeline *usecase.Pipeline, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{pipeline: pipeline, log: log}
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query"`
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Rating string `json:"rating"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	State string `json:"state"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
	Stored int    `json:"stored"`
}

// HandleIngest handles POST /ingest requests.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	report, err := h.pipeline.Ingest(r.Context())
	if err != nil {
		h.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, report)
}

// HandleQuery handles POST /query requests.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid JSON: " + err.Error(),
			State: h.pipeline.State().String(),
		})
		return
	}

	session, err := h.pipeline.Query(r.Context(), req.Query)
	if err != nil {
		h.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, session)
}

// HandleFeedback handles POST /feedback requests.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid JSON: " + err.Error(),
			State: h.pipeline.State().String(),
		})
		return
	}

	if err := h.pipeline.RecordFeedback(req.Rating); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			h.sendError(w, err)
			return
		}
		sendJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), State: h.pipeline.State().String()})
		return
	}

	session, err := h.pipeline.Session()
	if err != nil {
		h.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, session)
}

// HandleSession handles GET /session requests.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.pipeline.Session()
	if err != nil {
		h.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, session)
}

// HandleGraph handles GET /graph requests.
func (h *Handler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.pipeline.Graph()
	if err != nil {
		h.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, graph)
}

// HandleSuggestions handles GET /fixture/suggestions requests.
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string][]string{
		"suggestions": h.pipeline.Suggestions(),
	})
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	stored, err := h.pipeline.Stored()
	if err != nil {
		h.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		State:  h.pipeline.State().String(),
		Stored: stored,
	})
}

func (h *Handler) sendError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed")
	}
	sendJSON(w, status, ErrorResponse{
		Error: err.Error(),
		State: h.pipeline.State().String(),
	})
}

// StatusFor maps pipeline errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyStore),
		errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrFlowInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sendJSON writes a JSON response with the given status code.
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logrus.WithError(err).Error("failed to encode response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "failed to encode response: " + err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
