package rating

import "math"

// Solver constants.
const (
	// Tolerance is the convergence threshold on the transformed variable ln(sigma^2).
	Tolerance = 1e-6

	// MaxBracketSteps caps the downward walk that looks for the lower bracket.
	MaxBracketSteps = 10000
)

// Illinois finds a root of f between a and b with the Illinois variant of
// regula falsi. f(a) and f(b) must have opposite signs. It returns the
// converged end point a and the number of iterations taken.
func Illinois(f func(float64) float64, a, b, tol float64) (float64, int) {
	fa, fb := f(a), f(b)
	iterations := 0
	for math.Abs(b-a) > tol {
		c := a + (a-b)*fa/(fb-fa)
		fc := f(c)
		if fc*fb < 0 {
			a, fa = b, fb
		} else {
			fa /= 2
		}
		b, fb = c, fc
		iterations++
	}
	return a, iterations
}

// bracket walks down from a in steps of tau until f is no longer negative.
// The walk stops after MaxBracketSteps and returns the last point tried.
func bracket(f func(float64) float64, a, tau float64) float64 {
	k := 1.0
	for f(a-k*tau) < 0 && k < MaxBracketSteps {
		k++
	}
	return a - k*tau
}
