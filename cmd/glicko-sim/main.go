package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/glicko/internal/simulate"
	"github.com/okian/glicko/pkg/logger"
)

const defaultRunTimeout = 30 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players = flag.Int("players", simulate.DefaultPlayers, "Number of synthetic players")
		periods = flag.Int("periods", simulate.DefaultPeriods, "Rating periods to play")
		games   = flag.Int("games", simulate.DefaultGamesPerPeriod, "Games reported per period")
		draw    = flag.Float64("draw", simulate.DefaultDrawRate, "Draw probability between evenly matched players")
		spread  = flag.Float64("spread", simulate.DefaultSpread, "Standard deviation of hidden strengths")
		rps     = flag.Float64("rps", 0, "Submission rate limit, 0 for unlimited")
		workers = flag.Int("workers", simulate.DefaultWorkers, "Concurrent HTTP workers")
		timeout = flag.Duration("timeout", simulate.DefaultTimeout, "HTTP request timeout")
		seed    = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for strengths and results")
		verbose = flag.Bool("verbose", false, "Log every period summary")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		logger.SetLevelString("debug") //nolint:errcheck // constant level
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	_, err := simulate.Run(ctx, &simulate.Config{
		BaseURL:        *baseURL,
		Players:        *players,
		Periods:        *periods,
		GamesPerPeriod: *games,
		DrawRate:       *draw,
		Spread:         *spread,
		RPS:            *rps,
		Workers:        *workers,
		Timeout:        *timeout,
		Seed:           *seed,
		Verbose:        *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}
