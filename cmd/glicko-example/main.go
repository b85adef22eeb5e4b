// Command glicko-example rates the worked example from Glickman's Glicko-2
// paper: a 1500 player who beats a 1400 and loses to a 1550 and a 1700.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/okian/glicko/internal/domain/rating"
)

func main() {
	tau := flag.Float64("tau", 0.5, "System constant")
	flag.Parse()
	report(os.Stdout, *tau)
}

// report writes the example update for the given tau to w.
func report(w io.Writer, tau float64) {
	prior := rating.Display{Value: 1500, Deviation: 200}
	outcomes := []rating.Outcome{
		rating.NewWin(rating.Display{Value: 1400, Deviation: 30}),
		rating.NewLoss(rating.Display{Value: 1550, Deviation: 100}),
		rating.NewLoss(rating.Display{Value: 1700, Deviation: 300}),
	}

	step := rating.Compute(prior.Internal(), outcomes, tau)
	after := step.Rating.Display()
	interval := after.Interval()

	fmt.Fprintf(w, "prior       %7.2f  RD %6.2f  sigma %.6f\n", prior.Value, prior.Deviation, rating.DefaultVolatility)
	for _, o := range outcomes {
		opp := rating.Internal{Value: o.OpponentValue(), Deviation: o.OpponentDeviation()}.Display()
		fmt.Fprintf(w, "  %-4s vs   %7.2f  RD %6.2f\n", o.Score(), opp.Value, opp.Deviation)
	}
	fmt.Fprintf(w, "v           %.4f\n", step.Variance)
	fmt.Fprintf(w, "delta       %.4f\n", step.Improvement)
	fmt.Fprintf(w, "iterations  %d\n", step.Iterations)
	fmt.Fprintf(w, "posterior   %7.2f  RD %6.2f  sigma %.6f\n", after.Value, after.Deviation, step.Rating.Volatility)
	fmt.Fprintf(w, "95%%         [%.2f, %.2f]\n", interval.Low, interval.High)
}
