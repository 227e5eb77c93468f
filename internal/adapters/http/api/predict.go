package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/gesture/internal/app"
	"github.com/okian/gesture/internal/domain/landmark"
	"github.com/okian/gesture/pkg/errkind"
	"github.com/okian/gesture/pkg/logger"
)

// maxBodyBytes caps POST /predict bodies.
const maxBodyBytes = 1 << 20

// PredictDependencies defines the interface for the prediction pipeline.
type PredictDependencies interface {
	Predict(ctx context.Context, landmarks [][]float64) (Prediction, error)
}

// Client-facing messages for bodies that never reach validation.
const (
	msgInvalidBody  = "request body must be a JSON object with a landmarks array of [x, y] number pairs"
	msgBodyTooLarge = "request body too large"
)

// predictRequest mirrors the OpenAPI schema for POST /predict.
type predictRequest struct {
	Landmarks landmark.Raw `json:"landmarks"`
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Get().Debug(r.Context(), "rejected request body", logger.Error(errkind.WrapKind(op, ErrBadRequest, err)))
		msg := msgInvalidBody
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = msgBodyTooLarge
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: msg})
		return
	}

	p, err := h.deps.Predict(r.Context(), req.Landmarks)
	if err != nil {
		var inputErr *landmark.InputError
		switch {
		case errors.As(err, &inputErr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: inputErr.Reason})
		case errors.Is(err, service.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
		default:
			// The service logged the cause under this request's id.
			writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}
