package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/dto"
	"github.com/bibbank/bib/services/credit-risk-service/internal/application/usecase"
	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
)

// ScoreHandler exposes the scoring endpoint.
type ScoreHandler struct {
	scoreRecord *usecase.ScoreRecord
	logger      *slog.Logger
}

// NewScoreHandler creates the scoring HTTP handler.
func NewScoreHandler(scoreRecord *usecase.ScoreRecord, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{scoreRecord: scoreRecord, logger: logger}
}

// RegisterRoutes registers the scoring endpoint on the provided ServeMux.
func (h *ScoreHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/score", h.Score)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Score handles one scoring request: a flat JSON object in, the label and
// probability out. A malformed body is a client error; a missing optional
// column is not (it is zero-filled by schema reconciliation).
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var record feature.Record
	if err := json.Unmarshal(body, &record); err != nil || record == nil {
		scoreRequests.WithLabelValues("bad_request").Inc()
		h.writeError(w, http.StatusBadRequest, "request body must be a flat JSON object")
		return
	}

	resp, err := h.scoreRecord.Execute(r.Context(), dto.ScoreRequest{Record: record})
	if err != nil {
		h.handleScoreError(w, err)
		return
	}

	scoreRequests.WithLabelValues("ok").Inc()
	if resp.IsHighRisk == 1 {
		highRiskScores.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *ScoreHandler) handleScoreError(w http.ResponseWriter, err error) {
	var validationErr *feature.ValidationError
	switch {
	case errors.As(err, &validationErr):
		scoreRequests.WithLabelValues("bad_request").Inc()
		h.writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, artifact.ErrNotReady):
		scoreRequests.WithLabelValues("not_ready").Inc()
		h.writeError(w, http.StatusServiceUnavailable, "model is not loaded")
	default:
		scoreRequests.WithLabelValues("error").Inc()
		h.logger.Error("scoring request failed", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *ScoreHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
