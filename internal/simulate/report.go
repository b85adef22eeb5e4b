package simulate

import (
	"math"
	"sort"
)

// ranks returns the average (fractional) rank of every value, 1 being the
// largest.
func ranks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] > values[order[j]] })

	out := make([]float64, len(values))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[order[k]] = avg
		}
		i = j + 1
	}
	return out
}

// spearman returns the rank correlation of xs and ys, or NaN when either is
// constant or shorter than two.
func spearman(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return math.NaN()
	}
	rx, ry := ranks(xs), ranks(ys)

	var mx, my float64
	for i := range rx {
		mx += rx[i]
		my += ry[i]
	}
	n := float64(len(rx))
	mx /= n
	my /= n

	var cov, vx, vy float64
	for i := range rx {
		dx, dy := rx[i]-mx, ry[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}

// topOverlap returns the share of the k strongest players that are also
// among the k best rated.
func topOverlap(strengths, ratings []float64, k int) float64 {
	if k <= 0 || k > len(strengths) {
		return math.NaN()
	}
	top := func(values []float64) map[int]bool {
		idx := make([]int, len(values))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return values[idx[i]] > values[idx[j]] })
		set := make(map[int]bool, k)
		for _, i := range idx[:k] {
			set[i] = true
		}
		return set
	}
	a, b := top(strengths), top(ratings)
	hits := 0
	for i := range a {
		if b[i] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// compare builds the agreement part of a Report for the players that have a
// standing.
func compare(players []Player, standings map[string]Entry) (correlation, overlap float64, k int) {
	var strengths, ratings []float64
	for _, p := range players {
		e, ok := standings[p.ID]
		if !ok {
			continue
		}
		strengths = append(strengths, p.Strength)
		ratings = append(ratings, e.Rating)
	}
	k = max(1, len(strengths)/topFraction)
	if len(strengths) == 0 {
		return math.NaN(), math.NaN(), 0
	}
	return spearman(strengths, ratings), topOverlap(strengths, ratings, k), k
}
