package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/glicko/internal/domain/types"
)

// PredictDependencies estimates game results.
type PredictDependencies interface {
	Predict(ctx context.Context, a, b string) (types.Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles GET /predict?a=ID&b=ID requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	a, b := strings.TrimSpace(q.Get("a")), strings.TrimSpace(q.Get("b"))
	switch {
	case a == "" || b == "":
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("both a and b are required")))
		return
	case a == b:
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("a and b must differ")))
		return
	}
	p, err := h.deps.Predict(r.Context(), a, b)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
