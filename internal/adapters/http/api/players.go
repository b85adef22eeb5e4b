package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// PlayerDependencies looks up single players.
type PlayerDependencies interface {
	Player(ctx context.Context, playerID string) (Entry, error)
}

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /players/{player_id} requests.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing player id")))
		return
	}
	entry, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
