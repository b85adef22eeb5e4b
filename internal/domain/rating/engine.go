package rating

import "math"

// Step holds the result of one rating update together with the
// intermediate quantities of the computation.
type Step struct {
	Rating Internal
	// Variance is the estimated variance v of the rating based on game outcomes.
	Variance float64
	// Improvement is the estimated improvement delta.
	Improvement float64
	// Iterations is the number of Illinois iterations spent on volatility.
	Iterations int
}

// Update returns the rating that follows prior after a rating period with the
// given outcomes. tau is the system constant; values in [0.3, 1.2] are
// sensible. With no outcomes only the deviation grows.
//
// Inputs are not validated. A zero or negative deviation or a non-positive
// tau yields NaN or Inf rather than an error.
func Update(prior Internal, outcomes []Outcome, tau float64) Internal {
	return Compute(prior, outcomes, tau).Rating
}

// UpdateDisplay is Update for callers holding display-scale ratings. The
// prior is converted with DefaultVolatility and the result loses volatility.
func UpdateDisplay(prior Display, outcomes []Outcome, tau float64) Display {
	return Update(ToInternal(prior), outcomes, tau).Display()
}

// Compute performs the update and reports its intermediate values.
func Compute(prior Internal, outcomes []Outcome, tau float64) Step {
	if len(outcomes) == 0 {
		return Step{
			Rating: Internal{
				Value:      prior.Value,
				Deviation:  math.Sqrt(pow2(prior.Deviation) + pow2(prior.Volatility)),
				Volatility: prior.Volatility,
			},
		}
	}

	v := variance(prior.Value, outcomes)
	surprise := surpriseSum(prior.Value, outcomes)
	delta := v * surprise

	sigma, iterations := newVolatility(prior, delta, v, tau)

	preDeviation := math.Sqrt(pow2(prior.Deviation) + pow2(sigma))
	deviation := 1 / math.Sqrt(1/pow2(preDeviation)+1/v)

	return Step{
		Rating: Internal{
			Value:      prior.Value + pow2(deviation)*surpriseSum(prior.Value, outcomes),
			Deviation:  deviation,
			Volatility: sigma,
		},
		Variance:    v,
		Improvement: delta,
		Iterations:  iterations,
	}
}

// Predict returns the probability that a beats b, accounting for the
// uncertainty of both ratings.
func Predict(a, b Convertible) float64 {
	ra, rb := a.Internal(), b.Internal()
	combined := math.Sqrt(pow2(ra.Deviation) + pow2(rb.Deviation))
	return expectedScore(ra.Value, rb.Value, combined)
}

// variance is v: the inverse of the information contributed by all games.
func variance(value float64, outcomes []Outcome) float64 {
	sum := 0.0
	for _, o := range outcomes {
		e := expectedScore(value, o.opponentValue, o.opponentDeviation)
		sum += pow2(g(o.opponentDeviation)) * e * (1 - e)
	}
	return 1 / sum
}

// surpriseSum is the g-weighted sum of actual minus expected score.
func surpriseSum(value float64, outcomes []Outcome) float64 {
	sum := 0.0
	for _, o := range outcomes {
		e := expectedScore(value, o.opponentValue, o.opponentDeviation)
		sum += g(o.opponentDeviation) * (o.score.Weight() - e)
	}
	return sum
}

// newVolatility solves volatilityObjective = 0 over x = ln(sigma^2).
func newVolatility(prior Internal, delta, v, tau float64) (float64, int) {
	f := func(x float64) float64 {
		return volatilityObjective(x, delta, prior.Deviation, v, prior.Volatility, tau)
	}

	a := math.Log(pow2(prior.Volatility))
	var b float64
	if excess := pow2(delta) - pow2(prior.Deviation) - v; excess > 0 {
		b = math.Log(excess)
	} else {
		b = bracket(f, a, tau)
	}

	root, iterations := Illinois(f, a, b, Tolerance)
	return math.Exp(root / 2), iterations
}

// g down-weights an opponent in proportion to their rating uncertainty.
func g(deviation float64) float64 {
	return 1 / math.Sqrt(1+3*pow2(deviation)/pow2(math.Pi))
}

// expectedScore is the logistic probability that value beats the opponent.
func expectedScore(value, opponentValue, opponentDeviation float64) float64 {
	return 1 / (1 + math.Exp(-g(opponentDeviation)*(value-opponentValue)))
}

// volatilityObjective is f(x) from step 5 of the Glicko-2 paper.
func volatilityObjective(x, delta, deviation, v, volatility, tau float64) float64 {
	ex := math.Exp(x)
	spread := pow2(deviation) + v + ex
	estimated := ex * (pow2(delta) - pow2(deviation) - v - ex) / (2 * pow2(spread))
	pull := (x - math.Log(pow2(volatility))) / pow2(tau)
	return estimated - pull
}

func pow2(x float64) float64 { return x * x }
