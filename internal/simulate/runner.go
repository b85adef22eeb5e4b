package simulate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/glicko/pkg/logger"
)

// ErrNoStandings is returned when the service rated none of the players.
var ErrNoStandings = errors.New("no player standings retrieved")

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Players < 2 {
		out.Players = DefaultPlayers
	}
	if out.Periods < 1 {
		out.Periods = DefaultPeriods
	}
	if out.GamesPerPeriod < 1 {
		out.GamesPerPeriod = DefaultGamesPerPeriod
	}
	if out.DrawRate < 0 || out.DrawRate > 1 {
		out.DrawRate = DefaultDrawRate
	}
	if out.Spread <= 0 {
		out.Spread = DefaultSpread
	}
	if out.Workers < 1 {
		out.Workers = DefaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}

// Run plays cfg.Periods rating periods against the service at cfg.BaseURL and
// compares the resulting ratings with the hidden strengths.
func Run(ctx context.Context, config *Config) (Report, error) {
	cfg := config.withDefaults()
	log := logger.Get().Named("simulate")
	stats := Stats{StartTime: time.Now()}

	log.Info(ctx, "starting glicko simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("periods", cfg.Periods),
		logger.Int("gamesPerPeriod", cfg.GamesPerPeriod),
		logger.Int("workers", cfg.Workers),
		logger.Float64("rps", cfg.RPS))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return Report{}, fmt.Errorf("service health check failed: %w", err)
	}

	gen := newGenerator(cfg.Seed, cfg.DrawRate)
	players := gen.players(cfg.Players, cfg.Spread)
	limiter := newLimiter(cfg.RPS, cfg.Workers)

	for p := range cfg.Periods {
		games := gen.games(players, cfg.GamesPerPeriod)
		stats.GamesGenerated += len(games)
		submitGames(ctx, cfg, c, limiter, games, &stats)
		if err := ctx.Err(); err != nil {
			return Report{Stats: stats}, fmt.Errorf("simulation cancelled in period %d: %w", p+1, err)
		}

		summary, err := c.closePeriod(ctx)
		if err != nil {
			return Report{Stats: stats}, fmt.Errorf("closing period %d: %w", p+1, err)
		}
		stats.PeriodsClosed++
		if cfg.Verbose {
			log.Info(ctx, "period closed",
				logger.Int("period", summary.Period),
				logger.Int("games", summary.Games),
				logger.Int("players", summary.Players),
				logger.Float64("durationMs", summary.DurationMs))
		}
	}

	standings := fetchStandings(ctx, cfg, c, players)
	stats.PlayersFetched = len(standings)
	if len(standings) == 0 {
		return Report{Stats: stats}, ErrNoStandings
	}

	corr, overlap, k := compare(players, standings)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	report := Report{Stats: stats, RankCorrelation: corr, TopOverlap: overlap, TopK: k}
	logReport(ctx, log, report)
	return report, nil
}

func logReport(ctx context.Context, log logger.Logger, r Report) {
	var gamesPerSecond float64
	if r.Stats.Duration > 0 {
		gamesPerSecond = float64(r.Stats.GamesAccepted) / r.Stats.Duration.Seconds()
	}
	log.Info(ctx, "simulation finished",
		logger.Int("gamesGenerated", r.Stats.GamesGenerated),
		logger.Int("gamesAccepted", r.Stats.GamesAccepted),
		logger.Int("gamesDuplicate", r.Stats.GamesDuplicate),
		logger.Int("gamesFailed", r.Stats.GamesFailed),
		logger.Int("periodsClosed", r.Stats.PeriodsClosed),
		logger.Int("playersFetched", r.Stats.PlayersFetched),
		logger.Duration("duration", r.Stats.Duration),
		logger.Float64("gamesPerSecond", gamesPerSecond),
		logger.Float64("rankCorrelation", r.RankCorrelation),
		logger.Float64("topOverlap", r.TopOverlap),
		logger.Int("topK", r.TopK))
}
