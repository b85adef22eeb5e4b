// Package service wires the rating components together and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	gamequeue "github.com/okian/glicko/internal/adapters/mq/queue"
	workerpool "github.com/okian/glicko/internal/adapters/mq/worker"
	"github.com/okian/glicko/internal/adapters/repository"
	"github.com/okian/glicko/internal/domain/dedupe"
	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/internal/domain/period"
	"github.com/okian/glicko/internal/domain/rating"
	"github.com/okian/glicko/internal/domain/types"
	"github.com/okian/glicko/pkg/logger"
	"github.com/okian/glicko/pkg/metrics"
)

const (
	poolShutdownTimeout = 30 * time.Second
	drainTimeout        = 2 * time.Second
	drainPollInterval   = time.Millisecond
)

// trackingRecorder records games into the ledger and counts them off the
// in-flight total once they are stored.
type trackingRecorder struct {
	ledger   *period.Ledger
	inflight *atomic.Int64
}

func (r trackingRecorder) Record(ctx context.Context, g model.Game) error { //nolint:gocritic // hugeParam: games travel by value
	defer r.inflight.Add(-1)
	return r.ledger.Record(ctx, g)
}

// Service implements the API dependencies for the rating system.
type Service struct {
	mu      sync.RWMutex
	closeMu sync.Mutex

	store   *repository.TreapStore
	ledger  *period.Ledger
	deduper dedupe.Deduper
	queue   gamequeue.Queue
	pool    *workerpool.Pool

	// games accepted but not yet in the ledger
	inflight atomic.Int64

	workerCount       int
	queueSize         int
	dedupeSize        int
	tau               float64
	periodInterval    time.Duration
	periodWorkers     int
	initialVolatility float64

	started  bool
	cancel   context.CancelFunc
	loopDone chan struct{}

	logger logger.Logger
}

// New constructs a Service. Reads work before Start; submissions do not.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 2,
		queueSize:         100000,
		dedupeSize:        50000,
		tau:               period.DefaultTau,
		periodWorkers:     runtime.NumCPU(),
		initialVolatility: rating.DefaultVolatility,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.store = repository.NewTreapStore()
	s.ledger = period.NewLedger(
		period.WithTau(s.tau),
		period.WithWorkers(s.periodWorkers),
		period.WithInitialVolatility(s.initialVolatility),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start launches the workers and, when configured, the period timer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = gamequeue.NewInMemoryQueue(gamequeue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue,
		trackingRecorder{ledger: s.ledger, inflight: &s.inflight})

	// Workers and the timer outlive the caller's ctx; Stop ends them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.loopDone = make(chan struct{})
	if s.periodInterval > 0 {
		go s.periodLoop(runCtx, s.loopDone)
	} else {
		close(s.loopDone)
	}

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Float64("tau", s.tau),
		logger.Duration("period_interval", s.periodInterval),
	)
	return nil
}

// Stop drains the queue into the ledger and stops background work. Games in
// the open period are not rated.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool, cancel, loopDone := s.pool, s.cancel, s.loopDone
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping rating service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer shutdownCancel()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	cancel()
	<-loopDone

	if pending := s.ledger.Pending(ctx); pending > 0 {
		s.logger.Warn(ctx, "stopping with games in the open period", logger.Int("pending", pending))
	}
	s.logger.Info(ctx, "rating service stopped")
}

func (s *Service) periodLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.periodInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ClosePeriod(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error(ctx, "scheduled period close failed", logger.Error(err))
			}
		}
	}
}

// SubmitGame validates a game, drops repeats of a known game ID and queues
// the rest for the open period. duplicate is true when the game was already
// accepted earlier.
func (s *Service) SubmitGame(ctx context.Context, g model.Game) (duplicate bool, err error) { //nolint:gocritic // hugeParam: games travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if err := g.Validate(); err != nil {
		metrics.RecordGameRejected("invalid_game")
		return false, err
	}
	if s.deduper.SeenAndRecord(ctx, g.GameID) {
		metrics.RecordGameDuplicate()
		s.logger.Debug(ctx, "duplicate game", logger.String("game_id", g.GameID))
		return true, nil
	}

	s.inflight.Add(1)
	if err := s.queue.Enqueue(ctx, g); err != nil {
		s.inflight.Add(-1)
		s.deduper.Unrecord(ctx, g.GameID)
		metrics.RecordGameRejected("backpressure")
		return false, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	metrics.RecordGameAccepted()
	return false, nil
}

// ClosePeriod rates every player from the games of the open period and
// publishes the new standings together. Closes are serialised.
func (s *Service) ClosePeriod(ctx context.Context) (types.PeriodSummary, error) {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	s.waitForQueued(ctx)

	report, err := s.ledger.Close(ctx, s.store)
	if err != nil {
		metrics.RecordErrorByComponent("service", "period_close")
		return types.PeriodSummary{}, err
	}

	standings := make([]model.Standing, len(report.Updates))
	for i, u := range report.Updates {
		standings[i] = u.Standing
	}
	if err := s.store.Apply(ctx, standings); err != nil {
		metrics.RecordErrorByComponent("service", "apply_standings")
		s.logger.Error(ctx, "applying period standings failed",
			logger.Int("period", report.Period), logger.Error(err))
		return types.PeriodSummary{}, fmt.Errorf("apply period %d: %w", report.Period, err)
	}

	metrics.UpdateCurrentPeriod(report.Period)
	metrics.UpdatePendingGames(s.ledger.Pending(ctx))

	summary := types.PeriodSummary{
		Period:     report.Period,
		Games:      report.Games,
		Players:    len(report.Updates),
		DurationMs: float64(report.Duration.Microseconds()) / 1000,
	}
	s.logger.Info(ctx, "rating period closed",
		logger.Int("period", summary.Period),
		logger.Int("games", summary.Games),
		logger.Int("players", summary.Players),
		logger.Duration("took", report.Duration),
	)
	return summary, nil
}

// waitForQueued gives games already accepted a short window to reach the
// ledger so they count towards the period being closed.
func (s *Service) waitForQueued(ctx context.Context) {
	if s.inflight.Load() <= 0 {
		return
	}
	deadline := time.NewTimer(drainTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(drainPollInterval)
	defer tick.Stop()

	for s.inflight.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			s.logger.Warn(ctx, "closing period with games still queued",
				logger.Int("queued", int(s.inflight.Load())))
			return
		case <-tick.C:
		}
	}
}

// Player returns the current standing and rank of a player.
func (s *Service) Player(ctx context.Context, playerID string) (types.Entry, error) {
	e, err := s.store.Rank(ctx, playerID)
	if err != nil {
		return types.Entry{}, err
	}
	return types.NewEntry(e.Rank, playerID, e.Standing.Rating, e.Standing.Games), nil
}

// TopN returns the best n players.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.NewEntry(e.Rank, e.Standing.PlayerID, e.Standing.Rating, e.Standing.Games)
	}
	return out, nil
}

// Predict returns the probability that player a beats player b. Both players
// must be rated.
func (s *Service) Predict(ctx context.Context, a, b string) (types.Prediction, error) {
	sa, err := s.store.Get(ctx, a)
	if err != nil {
		return types.Prediction{}, err
	}
	sb, err := s.store.Get(ctx, b)
	if err != nil {
		return types.Prediction{}, err
	}
	return types.Prediction{
		PlayerA:        a,
		PlayerB:        b,
		WinProbability: rating.Predict(sa.Rating, sb.Rating),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	pending := s.ledger.Pending(ctx)
	players := s.store.Count(ctx)
	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"dedupeEntries": s.deduper.Size(),
		"tau":           s.tau,
		"period":        s.ledger.Period(),
		"pendingGames":  pending,
		"totalPlayers":  players,
	}
	metrics.UpdatePendingGames(pending)
	metrics.UpdateTotalPlayers(players)

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["workers"] = s.pool.Size()
	}
	return stats
}
