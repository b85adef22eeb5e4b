// Package types contains common types used across the application
package types

import "github.com/okian/glicko/internal/domain/rating"

// Entry represents a leaderboard entry on the display scale.
type Entry struct {
	Rank       int             `json:"rank"`
	PlayerID   string          `json:"player_id"`
	Rating     float64         `json:"rating"`
	Deviation  float64         `json:"deviation"`
	Volatility float64         `json:"volatility"`
	Interval   rating.Interval `json:"interval"`
	Games      int             `json:"games"`
}

// NewEntry builds an Entry from an internal-scale rating.
func NewEntry(rank int, playerID string, r rating.Internal, games int) Entry {
	d := r.Display()
	return Entry{
		Rank:       rank,
		PlayerID:   playerID,
		Rating:     d.Value,
		Deviation:  d.Deviation,
		Volatility: r.Volatility,
		Interval:   d.Interval(),
		Games:      games,
	}
}

// Prediction is the expected result of a game between two players.
type Prediction struct {
	PlayerA        string  `json:"player_a"`
	PlayerB        string  `json:"player_b"`
	WinProbability float64 `json:"win_probability"`
}

// PeriodSummary describes a closed rating period.
type PeriodSummary struct {
	Period     int     `json:"period"`
	Games      int     `json:"games"`
	Players    int     `json:"players"`
	DurationMs float64 `json:"duration_ms"`
}
