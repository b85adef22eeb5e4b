package rating

import (
	"fmt"
	"strings"
)

// Score is the result of one game from the subject player's perspective.
// Only Loss, Draw and Win are valid.
type Score int

// Valid scores.
const (
	Loss Score = iota
	Draw
	Win
)

// Weight is the numeric value the engine uses for the score.
func (s Score) Weight() float64 {
	switch s {
	case Win:
		return 1
	case Draw:
		return 0.5
	default:
		return 0
	}
}

// Valid reports whether s is one of Loss, Draw or Win.
func (s Score) Valid() bool {
	return s == Loss || s == Draw || s == Win
}

// Reverse returns the same game seen from the opponent's side.
func (s Score) Reverse() Score {
	switch s {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return s
	}
}

func (s Score) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Loss:
		return "loss"
	default:
		return fmt.Sprintf("Score(%d)", int(s))
	}
}

// ParseScore maps "win", "draw" or "loss" (any case) to a Score.
func ParseScore(s string) (Score, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win":
		return Win, nil
	case "draw":
		return Draw, nil
	case "loss":
		return Loss, nil
	}
	return Loss, fmt.Errorf("%w: %q", ErrInvalidScore, s)
}

// Against builds the Outcome of a game with this score against opp.
func (s Score) Against(opp Convertible) (Outcome, error) {
	switch s {
	case Win:
		return NewWin(opp), nil
	case Draw:
		return NewDraw(opp), nil
	case Loss:
		return NewLoss(opp), nil
	}
	return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidScore, int(s))
}

// Outcome summarises one game against an opponent. It stores the opponent's
// rating on the internal scale at the time of the game.
type Outcome struct {
	opponentValue     float64
	opponentDeviation float64
	score             Score
}

func newOutcome(opp Convertible, s Score) Outcome {
	r := opp.Internal()
	return Outcome{
		opponentValue:     r.Value,
		opponentDeviation: r.Deviation,
		score:             s,
	}
}

// NewWin records a win against opp.
func NewWin(opp Convertible) Outcome { return newOutcome(opp, Win) }

// NewLoss records a loss against opp.
func NewLoss(opp Convertible) Outcome { return newOutcome(opp, Loss) }

// NewDraw records a draw against opp.
func NewDraw(opp Convertible) Outcome { return newOutcome(opp, Draw) }

// OpponentValue is the opponent's internal-scale rating.
func (o Outcome) OpponentValue() float64 { return o.opponentValue }

// OpponentDeviation is the opponent's internal-scale deviation.
func (o Outcome) OpponentDeviation() float64 { return o.opponentDeviation }

// Score is the result from the subject player's perspective.
func (o Outcome) Score() Score { return o.score }
