// Package simulate drives a running rating service with synthetic players of
// known strength and reports how well the estimated ratings recover them.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Players        int           // Number of synthetic players
	Periods        int           // Rating periods to play and close
	GamesPerPeriod int           // Games reported before each close
	DrawRate       float64       // Probability that an evenly matched game is drawn
	Spread         float64       // Standard deviation of hidden strengths
	RPS            float64       // Submission rate limit; 0 disables pacing
	Workers        int           // Concurrent HTTP workers
	Timeout        time.Duration // HTTP request timeout
	Seed           uint64        // Seed for strengths and game results
	Verbose        bool          // Log every period summary
}

// Player is a synthetic competitor with a hidden display-scale strength.
type Player struct {
	ID       string  `json:"id"`
	Strength float64 `json:"strength"`
}

// Game is the request body of POST /games.
type Game struct {
	GameID  string `json:"game_id"`
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Result  string `json:"result"`
	TS      string `json:"ts"`
}

// Entry is the subset of a player standing the simulation reads back.
type Entry struct {
	Rank      int     `json:"rank"`
	PlayerID  string  `json:"player_id"`
	Rating    float64 `json:"rating"`
	Deviation float64 `json:"deviation"`
	Games     int     `json:"games"`
}

// AckResponse is the response of POST /games.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// PeriodSummary is the response of POST /periods/close.
type PeriodSummary struct {
	Period     int     `json:"period"`
	Games      int     `json:"games"`
	Players    int     `json:"players"`
	DurationMs float64 `json:"duration_ms"`
}

// Stats holds run statistics.
type Stats struct {
	GamesGenerated int
	GamesAccepted  int
	GamesDuplicate int
	GamesFailed    int
	PeriodsClosed  int
	PlayersFetched int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Report compares hidden strengths with the ratings the service produced.
type Report struct {
	Stats Stats
	// Spearman rank correlation between strength and rating.
	RankCorrelation float64
	// Share of the strongest TopK players that are also rated in the top TopK.
	TopOverlap float64
	TopK       int
}
