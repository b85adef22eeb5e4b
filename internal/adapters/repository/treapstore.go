package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: rating value DESC, then player ID ASC. In-order traversal yields
// the leaderboard from best to worst. Each node tracks its subtree size so
// positions are answered without walking the whole tree.

type node struct {
	id    string
	value float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// before reports whether (aValue, aID) is ranked ahead of (bValue, bID).
func before(aValue float64, aID string, bValue float64, bID string) bool {
	if aValue != bValue {
		return aValue > bValue
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, fresh *node) *node {
	if n == nil {
		return fresh
	}
	if before(fresh.value, fresh.id, n.value, n.id) {
		n.left = insert(n.left, fresh)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, fresh)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id string, value float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id && n.value == value:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, value)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, value)
		}
	case before(value, id, n.value, n.id):
		n.left = remove(n.left, id, value)
	default:
		n.right = remove(n.right, id, value)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes hold a value strictly greater than value.
func countAbove(n *node, value float64) int {
	count := 0
	for n != nil {
		if n.value > value {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// walk visits nodes in rank order until visit returns false.
func walk(n *node, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, visit) && visit(n) && walk(n.right, visit)
}

// TreapStore is an in-memory Store safe for concurrent use.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]model.Standing
	rng  *rand.Rand
}

// NewTreapStore constructs an empty store.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[string]model.Standing),
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements Store.Get.
func (s *TreapStore) Get(_ context.Context, playerID string) (model.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[playerID]
	if !ok {
		return model.Standing{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return st, nil
}

// All implements Store.All.
func (s *TreapStore) All(_ context.Context) []model.Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Standing, 0, len(s.byID))
	walk(s.root, func(n *node) bool {
		out = append(out, s.byID[n.id])
		return true
	})
	return out
}

// Apply implements Store.Apply in O(k log n) expected time for k standings.
func (s *TreapStore) Apply(_ context.Context, standings []model.Standing) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	for _, st := range standings {
		if !st.Rating.IsFinite() {
			metrics.RecordErrorByComponent("repository", "invalid_rating")
			return fmt.Errorf("%w: player %s", ErrInvalidRating, st.PlayerID)
		}
	}

	s.mu.Lock()
	for _, st := range standings {
		if old, ok := s.byID[st.PlayerID]; ok {
			s.root = remove(s.root, old.PlayerID, old.Rating.Value)
		}
		s.byID[st.PlayerID] = st
		s.root = insert(s.root, &node{id: st.PlayerID, value: st.Rating.Value, prio: s.rng.Uint64(), size: 1})
	}
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateTotalPlayers(count)
	return nil
}

// Rank implements Store.Rank. Players with equal ratings share a rank and the
// next distinct rating skips the tied positions (1, 1, 3).
func (s *TreapStore) Rank(_ context.Context, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[playerID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return Entry{Rank: countAbove(s.root, st.Rating.Value) + 1, Standing: st}, nil
}

// TopN implements Store.TopN.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	walk(s.root, func(nd *node) bool {
		rank := len(out) + 1
		if last := len(out) - 1; last >= 0 && out[last].Standing.Rating.Value == nd.value {
			rank = out[last].Rank
		}
		out = append(out, Entry{Rank: rank, Standing: s.byID[nd.id]})
		return len(out) < n
	})
	return out, nil
}

// Count implements Store.Count.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
