// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/glicko/internal/domain/rating"
)

// Game is a reported game between two players.
type Game struct {
	GameID  string       // unique id for idempotency
	PlayerA string       // first player
	PlayerB string       // second player
	Result  rating.Score // result from PlayerA's perspective
	TS      time.Time    // when the game was played
}

// Validate checks the fields a game must carry before it can be rated.
func (g Game) Validate() error {
	switch {
	case strings.TrimSpace(g.GameID) == "":
		return fmt.Errorf("%w: missing game_id", ErrInvalidGame)
	case strings.TrimSpace(g.PlayerA) == "":
		return fmt.Errorf("%w: missing player_a", ErrInvalidGame)
	case strings.TrimSpace(g.PlayerB) == "":
		return fmt.Errorf("%w: missing player_b", ErrInvalidGame)
	case g.PlayerA == g.PlayerB:
		return fmt.Errorf("%w: a player cannot play themselves", ErrInvalidGame)
	case !g.Result.Valid():
		return fmt.Errorf("%w: %w", ErrInvalidGame, rating.ErrInvalidScore)
	}
	return nil
}

// Standing is a player's rating as held by the service.
type Standing struct {
	PlayerID string
	Rating   rating.Internal
	Games    int // games counted across all closed periods
	Period   int // last period that updated this standing
}
