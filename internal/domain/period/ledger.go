// Package period accumulates game reports for the current rating period and
// turns them into rating updates when the period closes.
//
// Every update computed at close uses the ratings held at the start of the
// period, for the player and for all of their opponents. Updates are returned
// as a batch so the caller can apply them together.
package period

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/internal/domain/rating"
	"github.com/okian/glicko/pkg/metrics"
)

// DefaultTau is the system constant used when none is configured.
const DefaultTau = 0.5

// Source supplies the standings in force at the start of the period.
type Source interface {
	All(ctx context.Context) []model.Standing
}

// Update is the new standing of one player after a period.
type Update struct {
	Previous rating.Internal
	Standing model.Standing
	Step     rating.Step
}

// Report summarises a closed period.
type Report struct {
	Period   int
	Games    int
	Updates  []Update
	Duration time.Duration
}

// result is one game from a single player's side.
type result struct {
	opponent string
	score    rating.Score
}

// Ledger collects results until the period is closed. It is safe for
// concurrent use.
type Ledger struct {
	mu      sync.Mutex
	pending map[string][]result
	games   int
	period  int

	tau     float64
	workers int
	initial rating.Internal
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		pending: make(map[string][]result),
		tau:     DefaultTau,
		workers: runtime.NumCPU(),
		initial: rating.UnratedInternal(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record adds a game to the current period for both players.
func (l *Ledger) Record(_ context.Context, g model.Game) error { //nolint:gocritic // hugeParam: games travel by value
	if err := g.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending[g.PlayerA] = append(l.pending[g.PlayerA], result{opponent: g.PlayerB, score: g.Result})
	l.pending[g.PlayerB] = append(l.pending[g.PlayerB], result{opponent: g.PlayerA, score: g.Result.Reverse()})
	l.games++
	return nil
}

// Pending returns the number of games recorded in the open period.
func (l *Ledger) Pending(_ context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.games
}

// Period returns the number of periods closed so far.
func (l *Ledger) Period() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.period
}

// Close ends the open period and computes the new rating of every player that
// either played in it or already has a standing in src. Players without games
// keep their rating and gain deviation. If ctx is cancelled the period's games
// are put back and the period stays open. Close must not run concurrently
// with itself.
func (l *Ledger) Close(ctx context.Context, src Source) (Report, error) {
	start := time.Now()

	l.mu.Lock()
	pending, games := l.pending, l.games
	l.pending = make(map[string][]result)
	l.games = 0
	l.period++
	number := l.period
	l.mu.Unlock()

	standings := make(map[string]model.Standing)
	for _, s := range src.All(ctx) {
		standings[s.PlayerID] = s
	}

	players := make([]string, 0, len(standings)+len(pending))
	for id := range standings {
		players = append(players, id)
	}
	for id := range pending {
		if _, ok := standings[id]; !ok {
			players = append(players, id)
		}
	}
	sort.Strings(players)

	updates := make([]Update, len(players))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.workers)
	for i, id := range players {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			u, err := l.rate(id, number, standings, pending[id])
			if err != nil {
				return err
			}
			updates[i] = u
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		l.restore(pending, games)
		return Report{}, fmt.Errorf("close period %d: %w", number, err)
	}

	for _, u := range updates {
		metrics.RecordSolverIterations(u.Step.Iterations)
	}
	duration := time.Since(start)
	metrics.RecordPeriodClose(float64(duration.Milliseconds()), len(updates))

	return Report{Period: number, Games: games, Updates: updates, Duration: duration}, nil
}

// rate computes one player's update from period-start standings.
func (l *Ledger) rate(id string, number int, standings map[string]model.Standing, results []result) (Update, error) {
	current, ok := standings[id]
	if !ok {
		current = model.Standing{PlayerID: id, Rating: l.initial}
	}

	outcomes := make([]rating.Outcome, 0, len(results))
	for _, r := range results {
		opp := l.initial
		if s, ok := standings[r.opponent]; ok {
			opp = s.Rating
		}
		o, err := r.score.Against(opp)
		if err != nil {
			return Update{}, fmt.Errorf("player %s: %w", id, err)
		}
		outcomes = append(outcomes, o)
	}

	step := rating.Compute(current.Rating, outcomes, l.tau)
	return Update{
		Previous: current.Rating,
		Standing: model.Standing{
			PlayerID: id,
			Rating:   step.Rating,
			Games:    current.Games + len(results),
			Period:   number,
		},
		Step: step,
	}, nil
}

// restore puts games from an aborted close back into the open period.
func (l *Ledger) restore(pending map[string][]result, games int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, rs := range pending {
		l.pending[id] = append(rs, l.pending[id]...)
	}
	l.games += games
	l.period--
}
