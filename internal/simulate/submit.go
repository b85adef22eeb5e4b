package simulate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/glicko/pkg/logger"
)

// newLimiter paces submissions at rps requests per second. A non-positive
// rate disables pacing.
func newLimiter(rps float64, workers int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, workers)
	}
	return rate.NewLimiter(rate.Limit(rps), max(1, workers))
}

// submitGames reports games concurrently and updates stats.
func submitGames(ctx context.Context, cfg *Config, c *client, limiter *rate.Limiter, games []Game, stats *Stats) {
	log := logger.Get()

	var accepted, duplicate, failed, submitted atomic.Int64
	var lastReport atomic.Int64

	gameChan := make(chan Game, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range gameChan {
				if err := limiter.Wait(ctx); err != nil {
					failed.Add(1)
					continue
				}
				dup, err := c.submit(ctx, g)
				submitted.Add(1)
				switch {
				case err != nil:
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "game submission failed", logger.String("game_id", g.GameID), logger.Error(err))
					}
				case dup:
					duplicate.Add(1)
				default:
					accepted.Add(1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Debug(ctx, "submission progress",
						logger.Int("submitted", int(submitted.Load())),
						logger.Int("total", len(games)),
						logger.Int("failed", int(failed.Load())))
				}
			}
		}()
	}

	go func() {
		defer close(gameChan)
		for _, g := range games {
			select {
			case <-ctx.Done():
				return
			case gameChan <- g:
			}
		}
	}()

	wg.Wait()

	stats.GamesAccepted += int(accepted.Load())
	stats.GamesDuplicate += int(duplicate.Load())
	stats.GamesFailed += int(failed.Load())
}

// fetchStandings reads every player's standing back concurrently. Players
// the service does not know are skipped.
func fetchStandings(ctx context.Context, cfg *Config, c *client, players []Player) map[string]Entry {
	var mu sync.Mutex
	out := make(map[string]Entry, len(players))

	idx := make(chan int, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				e, err := c.player(ctx, players[i].ID)
				if err != nil {
					continue
				}
				mu.Lock()
				out[players[i].ID] = e
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(idx)
		for i := range players {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()

	wg.Wait()
	return out
}
