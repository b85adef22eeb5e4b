package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/internal/domain/rating"
	"github.com/smartystreets/goconvey/convey"
)

func TestGame_Validate(t *testing.T) {
	convey.Convey("Given a well-formed game", t, func() {
		game := model.Game{
			GameID:  "game-1",
			PlayerA: "alice",
			PlayerB: "bob",
			Result:  rating.Draw,
			TS:      time.Now(),
		}

		convey.Convey("Then it validates", func() {
			convey.So(game.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a required field is missing", func() {
			cases := map[string]func(g *model.Game){
				"game_id":  func(g *model.Game) { g.GameID = " " },
				"player_a": func(g *model.Game) { g.PlayerA = "" },
				"player_b": func(g *model.Game) { g.PlayerB = "" },
			}

			convey.Convey("Then validation names the field", func() {
				for field, mutate := range cases {
					g := game
					mutate(&g)
					err := g.Validate()
					convey.So(errors.Is(err, model.ErrInvalidGame), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, field)
				}
			})
		})

		convey.Convey("When both sides are the same player", func() {
			game.PlayerB = game.PlayerA

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(game.Validate(), model.ErrInvalidGame), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the result is outside win, draw and loss", func() {
			game.Result = rating.Score(3)

			convey.Convey("Then both error kinds are reported", func() {
				err := game.Validate()
				convey.So(errors.Is(err, model.ErrInvalidGame), convey.ShouldBeTrue)
				convey.So(errors.Is(err, rating.ErrInvalidScore), convey.ShouldBeTrue)
			})
		})
	})
}
