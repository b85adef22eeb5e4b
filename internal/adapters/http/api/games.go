package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/internal/domain/rating"
)

// GameDependencies accepts reported games.
type GameDependencies interface {
	// SubmitGame queues a game for the open period. duplicate reports a game
	// ID that was already accepted.
	SubmitGame(ctx context.Context, g model.Game) (duplicate bool, err error)
}

// gameRequest mirrors the OpenAPI schema for POST /games.
type gameRequest struct {
	GameID  string `json:"game_id"`
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Result  string `json:"result"`
	TS      string `json:"ts"`
}

func (req gameRequest) toGame() (model.Game, error) {
	score, err := rating.ParseScore(req.Result)
	if err != nil {
		return model.Game{}, err
	}
	ts := time.Now().UTC()
	if strings.TrimSpace(req.TS) != "" {
		ts, err = time.Parse(time.RFC3339, req.TS)
		if err != nil {
			return model.Game{}, errors.New("invalid ts; must be RFC3339")
		}
	}
	g := model.Game{
		GameID:  req.GameID,
		PlayerA: req.PlayerA,
		PlayerB: req.PlayerB,
		Result:  score,
		TS:      ts,
	}
	return g, g.Validate()
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// GamesHandler handles game reports.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandlePostGame handles POST /games requests.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	if !allow(w, r, op, http.MethodPost) {
		return
	}

	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	g, err := req.toGame()
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	duplicate, err := h.deps.SubmitGame(r.Context(), g)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
