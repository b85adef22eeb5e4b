package simulate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExpected(t *testing.T) {
	Convey("Given the logistic model", t, func() {
		So(expected(1500, 1500), ShouldAlmostEqual, 0.5, 1e-12)
		So(expected(1900, 1500), ShouldAlmostEqual, 10.0/11.0, 1e-12)
		So(expected(1500, 1900)+expected(1900, 1500), ShouldAlmostEqual, 1.0, 1e-12)
	})
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		gen := newGenerator(7, 0.1)
		players := gen.players(10, 200)

		Convey("Then players get distinct IDs", func() {
			seen := map[string]bool{}
			for _, p := range players {
				So(seen[p.ID], ShouldBeFalse)
				seen[p.ID] = true
			}
		})

		Convey("Then games pair distinct players with valid results", func() {
			games := gen.games(players, 500)
			So(games, ShouldHaveLength, 500)
			ids := map[string]bool{}
			for _, g := range games {
				So(g.PlayerA, ShouldNotEqual, g.PlayerB)
				So(g.Result, ShouldBeIn, []string{"win", "draw", "loss"})
				So(ids[g.GameID], ShouldBeFalse)
				ids[g.GameID] = true
			}
		})

		Convey("Then a much stronger player wins most games", func() {
			strong, weak := Player{ID: "s", Strength: 2100}, Player{ID: "w", Strength: 1300}
			wins := 0
			for range 1000 {
				if gen.result(strong, weak) == "win" {
					wins++
				}
			}
			So(wins, ShouldBeGreaterThan, 900)
		})

		Convey("Then same seeds give the same strengths", func() {
			a := newGenerator(3, 0).players(5, 100)
			b := newGenerator(3, 0).players(5, 100)
			for i := range a {
				So(a[i].Strength, ShouldEqual, b[i].Strength)
			}
		})
	})
}
