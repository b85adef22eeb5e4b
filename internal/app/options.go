package service

import (
	"time"

	"github.com/okian/glicko/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the number of workers recording games.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the game queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the game ID cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithTau sets the Glicko-2 system constant.
func WithTau(tau float64) Option {
	return func(s *Service) {
		if tau > 0 {
			s.tau = tau
		}
	}
}

// WithPeriodInterval closes a rating period every d. Zero disables the timer.
func WithPeriodInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.periodInterval = d
		}
	}
}

// WithPeriodWorkers bounds concurrent rating computations during a close.
func WithPeriodWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.periodWorkers = n
		}
	}
}

// WithInitialVolatility sets the volatility of players seen for the first time.
func WithInitialVolatility(sigma float64) Option {
	return func(s *Service) {
		if sigma > 0 {
			s.initialVolatility = sigma
		}
	}
}
