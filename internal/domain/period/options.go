package period

import "github.com/okian/glicko/internal/domain/rating"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithTau sets the system constant passed to every update.
func WithTau(tau float64) Option {
	return func(l *Ledger) {
		if tau > 0 {
			l.tau = tau
		}
	}
}

// WithWorkers bounds how many player updates are computed at once.
func WithWorkers(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithInitialVolatility sets the volatility given to players seen for the
// first time. Their rating and deviation are always the unrated defaults.
func WithInitialVolatility(sigma float64) Option {
	return func(l *Ledger) {
		if sigma > 0 {
			l.initial = rating.UnratedInternal().WithVolatility(sigma)
		}
	}
}
