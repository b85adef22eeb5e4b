package service_test

import (
	"context"
	"fmt"
	"testing"

	service "github.com/okian/glicko/internal/app"
	"github.com/okian/glicko/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a round robin between players of known order", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(1000),
			service.WithPeriodWorkers(3),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		players := []string{"p0", "p1", "p2", "p3", "p4"}
		n := 0
		for round := range 3 {
			for i := range players {
				for j := i + 1; j < len(players); j++ {
					n++
					// the lower index always wins
					_, err := svc.SubmitGame(ctx, game(fmt.Sprintf("r%d-%d", round, n), players[i], players[j], rating.Win))
					So(err, ShouldBeNil)
				}
			}
			_, err := svc.ClosePeriod(ctx)
			So(err, ShouldBeNil)
		}

		Convey("Then the leaderboard reproduces that order", func() {
			entries, err := svc.TopN(ctx, 10)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, len(players))
			for i, e := range entries {
				So(e.PlayerID, ShouldEqual, players[i])
				So(e.Rank, ShouldEqual, i+1)
				So(e.Games, ShouldEqual, 12)
			}
		})

		Convey("And ratings stay centred on the scale", func() {
			entries, _ := svc.TopN(ctx, 10)
			sum := 0.0
			for _, e := range entries {
				sum += e.Rating
			}
			So(sum/float64(len(entries)), ShouldAlmostEqual, rating.DisplayCenter, 1.0)
		})

		Convey("And stats reflect three closed periods", func() {
			stats := svc.GetStats()
			So(stats["period"], ShouldEqual, 3)
			So(stats["pendingGames"], ShouldEqual, 0)
			So(stats["totalPlayers"], ShouldEqual, 5)
		})
	})
}
