// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/glicko/internal/domain/period"
	"github.com/okian/glicko/internal/domain/rating"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory game queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of workers recording games.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the game ID cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Tau is the Glicko-2 system constant.
	Tau float64 `koanf:"tau"`

	// PeriodIntervalSec closes a rating period on a timer. Zero means periods
	// are closed only on request.
	PeriodIntervalSec int `koanf:"period_interval_sec"`

	// PeriodWorkers bounds concurrent rating computations during a close.
	PeriodWorkers int `koanf:"period_workers"`

	// InitialVolatility is given to players seen for the first time.
	InitialVolatility float64 `koanf:"initial_volatility"`
}

// New returns a Config filled with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          500_000,
		MaxLeaderboardLimit: 100,
		Tau:                 period.DefaultTau,
		PeriodIntervalSec:   0,
		PeriodWorkers:       runtime.NumCPU(),
		InitialVolatility:   rating.DefaultVolatility,
	}
}

// Validate reports the first invalid field wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Tau <= 0:
		return fmt.Errorf("%w: tau must be positive, got %v", ErrInvalidConfig, c.Tau)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive, got %d", ErrInvalidConfig, c.MaxLeaderboardLimit)
	case c.InitialVolatility <= 0:
		return fmt.Errorf("%w: initial_volatility must be positive, got %v", ErrInvalidConfig, c.InitialVolatility)
	case c.PeriodIntervalSec < 0:
		return fmt.Errorf("%w: period_interval_sec must not be negative", ErrInvalidConfig)
	}
	return nil
}
