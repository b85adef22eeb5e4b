package simulate

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/glicko/internal/domain/rating"
)

// generator draws players and game results from a seeded source.
type generator struct {
	rng      *rand.Rand
	drawRate float64
}

func newGenerator(seed uint64, drawRate float64) *generator {
	return &generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		drawRate: drawRate,
	}
}

// players creates n players with normally distributed strengths around the
// display-scale centre.
func (g *generator) players(n int, spread float64) []Player {
	out := make([]Player, n)
	for i := range out {
		out[i] = Player{
			ID:       uuid.NewString(),
			Strength: rating.DisplayCenter + g.rng.NormFloat64()*spread,
		}
	}
	return out
}

// expected returns the probability that a strength sa beats sb.
func expected(sa, sb float64) float64 {
	return 1 / (1 + math.Pow(10, -(sa-sb)/logisticScale))
}

// result draws the outcome from a's perspective. Draws are most likely between
// evenly matched players.
func (g *generator) result(a, b Player) string {
	p := expected(a.Strength, b.Strength)
	draw := g.drawRate * (1 - math.Abs(2*p-1))
	u := g.rng.Float64()
	switch {
	case u < draw:
		return "draw"
	case u < draw+(1-draw)*p:
		return "win"
	default:
		return "loss"
	}
}

// games pairs random distinct players n times.
func (g *generator) games(players []Player, n int) []Game {
	out := make([]Game, n)
	ts := time.Now().UTC().Format(time.RFC3339)
	for i := range out {
		ai := g.rng.IntN(len(players))
		bi := g.rng.IntN(len(players) - 1)
		if bi >= ai {
			bi++
		}
		a, b := players[ai], players[bi]
		out[i] = Game{
			GameID:  uuid.NewString(),
			PlayerA: a.ID,
			PlayerB: b.ID,
			Result:  g.result(a, b),
			TS:      ts,
		}
	}
	return out
}
