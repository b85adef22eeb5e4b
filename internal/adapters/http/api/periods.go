package api

import (
	"context"
	"net/http"

	"github.com/okian/glicko/internal/domain/types"
)

// PeriodDependencies closes rating periods.
type PeriodDependencies interface {
	ClosePeriod(ctx context.Context) (types.PeriodSummary, error)
}

// PeriodsHandler handles period requests.
type PeriodsHandler struct {
	deps PeriodDependencies
}

// NewPeriodsHandler creates a new periods handler.
func NewPeriodsHandler(deps PeriodDependencies) *PeriodsHandler {
	return &PeriodsHandler{deps: deps}
}

// HandleClose handles POST /periods/close requests.
func (h *PeriodsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_period"
	if !allow(w, r, op, http.MethodPost) {
		return
	}
	summary, err := h.deps.ClosePeriod(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
