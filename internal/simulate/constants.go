package simulate

import "time"

// Defaults used when a Config field is left at zero.
const (
	DefaultPlayers        = 100
	DefaultPeriods        = 10
	DefaultGamesPerPeriod = 500
	DefaultDrawRate       = 0.1
	DefaultSpread         = 200.0
	DefaultTimeout        = 10 * time.Second
	DefaultWorkers        = 8

	// logisticScale matches the Elo convention on the display scale.
	logisticScale = 400.0

	workerChannelMultiplier = 2
	progressInterval        = time.Second
	topFraction             = 10
)
