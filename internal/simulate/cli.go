package simulate

import "os"

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Glicko-2 Simulator
==================

Plays synthetic players of known strength against a running rating service,
closes rating periods and reports how well the ratings recover the strengths.

Usage:
  glicko-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of synthetic players (default 100)
  -periods int
        Rating periods to play (default 10)
  -games int
        Games reported per period (default 500)
  -draw float
        Draw probability between evenly matched players (default 0.1)
  -spread float
        Standard deviation of hidden strengths (default 200)
  -rps float
        Submission rate limit, 0 for unlimited (default 0)
  -workers int
        Concurrent HTTP workers (default 8)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Seed for strengths and results (default: current time)
  -verbose
        Log every period summary
  -help
        Show this help message

Examples:
  glicko-sim -players 200 -periods 20 -games 2000
  glicko-sim -rps 500 -verbose
`)
}
