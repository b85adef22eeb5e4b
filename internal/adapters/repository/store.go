// Package repository holds player standings and answers ranking queries.
package repository

import (
	"context"

	"github.com/okian/glicko/internal/domain/model"
)

// Entry is a standing together with its leaderboard position.
type Entry struct {
	Rank     int
	Standing model.Standing
}

// Store provides read/write access to the standings.
type Store interface {
	// Get returns the standing of a player, or ErrNotFound.
	Get(ctx context.Context, playerID string) (model.Standing, error)

	// All returns every standing, best rating first.
	All(ctx context.Context) []model.Standing

	// Apply replaces the standings of the given players in one step.
	// The whole batch is rejected with ErrInvalidRating if any rating is not finite.
	Apply(ctx context.Context, standings []model.Standing) error

	// Rank returns the current position of a player, or ErrNotFound.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// TopN returns the best n players. ErrInvalidLimit if n < 1.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of rated players.
	Count(ctx context.Context) int
}
