package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/glicko/internal/adapters/http/api"
	"github.com/okian/glicko/internal/adapters/mq/queue"
	"github.com/okian/glicko/internal/adapters/repository"
	service "github.com/okian/glicko/internal/app"
	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/internal/domain/rating"
	"github.com/okian/glicko/internal/domain/types"
)

type mockDeps struct {
	submitted []model.Game
	submitErr error
	seen      map[string]bool

	closeErr error
	entries  []types.Entry
}

func (m *mockDeps) SubmitGame(_ context.Context, g model.Game) (bool, error) {
	if m.submitErr != nil {
		return false, m.submitErr
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[g.GameID] {
		return true, nil
	}
	m.seen[g.GameID] = true
	m.submitted = append(m.submitted, g)
	return false, nil
}

func (m *mockDeps) ClosePeriod(context.Context) (types.PeriodSummary, error) {
	if m.closeErr != nil {
		return types.PeriodSummary{}, m.closeErr
	}
	return types.PeriodSummary{Period: 1, Games: len(m.submitted), Players: len(m.entries)}, nil
}

func (m *mockDeps) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n > len(m.entries) {
		return m.entries, nil
	}
	return m.entries[:n], nil
}

func (m *mockDeps) Player(_ context.Context, id string) (types.Entry, error) {
	for _, e := range m.entries {
		if e.PlayerID == id {
			return e, nil
		}
	}
	return types.Entry{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
}

func (m *mockDeps) Predict(ctx context.Context, a, b string) (types.Prediction, error) {
	ea, err := m.Player(ctx, a)
	if err != nil {
		return types.Prediction{}, err
	}
	eb, err := m.Player(ctx, b)
	if err != nil {
		return types.Prediction{}, err
	}
	p := 0.5
	if ea.Rating > eb.Rating {
		p = 0.75
	}
	return types.Prediction{PlayerA: a, PlayerB: b, WinProbability: p}, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]any {
	return map[string]any{"period": 1, "totalPlayers": 2}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, 5).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body.Code
}

func seeded() *mockDeps {
	top := rating.Display{Value: 1700, Deviation: 60}.Internal()
	low := rating.Display{Value: 1400, Deviation: 80}.Internal()
	return &mockDeps{entries: []types.Entry{
		types.NewEntry(1, "alice", top, 10),
		types.NewEntry(2, "bob", low, 10),
	}}
}

func TestGamesEndpoint(t *testing.T) {
	Convey("Given the games endpoint", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("A valid game is accepted", func() {
			w := do(mux, http.MethodPost, "/games",
				`{"game_id":"g1","player_a":"alice","player_b":"bob","result":"win","ts":"2024-01-02T03:04:05Z"}`)
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(deps.submitted, ShouldHaveLength, 1)
			So(deps.submitted[0].Result, ShouldEqual, rating.Win)
			So(deps.submitted[0].TS.Year(), ShouldEqual, 2024)

			Convey("And the same game ID is reported as a duplicate", func() {
				w := do(mux, http.MethodPost, "/games",
					`{"game_id":"g1","player_a":"alice","player_b":"bob","result":"win"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.submitted, ShouldHaveLength, 1)
			})
		})

		Convey("Malformed bodies are rejected", func() {
			cases := []string{
				`{`,
				`{"game_id":"g2","player_a":"alice","player_b":"bob","result":"forfeit"}`,
				`{"game_id":"g3","player_a":"alice","player_b":"alice","result":"draw"}`,
				`{"game_id":"","player_a":"alice","player_b":"bob","result":"draw"}`,
				`{"game_id":"g4","player_a":"alice","player_b":"bob","result":"loss","ts":"yesterday"}`,
			}
			for _, body := range cases {
				w := do(mux, http.MethodPost, "/games", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			}
			So(deps.submitted, ShouldBeEmpty)
		})

		Convey("Other methods are refused", func() {
			w := do(mux, http.MethodGet, "/games", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
		})

		Convey("A full queue maps to 429", func() {
			deps.submitErr = fmt.Errorf("%w: %w", service.ErrBackpressure, queue.ErrFull)
			w := do(mux, http.MethodPost, "/games",
				`{"game_id":"g5","player_a":"alice","player_b":"bob","result":"draw"}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(errorCode(w), ShouldEqual, "backpressure")
		})

		Convey("A stopped service maps to 503", func() {
			deps.submitErr = service.ErrNotStarted
			w := do(mux, http.MethodPost, "/games",
				`{"game_id":"g6","player_a":"alice","player_b":"bob","result":"draw"}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestPeriodsEndpoint(t *testing.T) {
	Convey("Given the period close endpoint", t, func() {
		deps := seeded()
		mux := newMux(deps)

		Convey("POST closes the period and returns a summary", func() {
			w := do(mux, http.MethodPost, "/periods/close", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var summary types.PeriodSummary
			So(json.Unmarshal(w.Body.Bytes(), &summary), ShouldBeNil)
			So(summary.Period, ShouldEqual, 1)
			So(summary.Players, ShouldEqual, 2)
		})

		Convey("Unexpected failures map to 500", func() {
			deps.closeErr = context.DeadlineExceeded
			w := do(mux, http.MethodPost, "/periods/close", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(errorCode(w), ShouldEqual, "internal_error")
		})

		Convey("GET is refused", func() {
			So(do(mux, http.MethodGet, "/periods/close", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	Convey("Given a server with two rated players", t, func() {
		mux := newMux(seeded())

		Convey("The leaderboard lists players in rank order", func() {
			w := do(mux, http.MethodGet, "/leaderboard?limit=2", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var entries []types.Entry
			So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].PlayerID, ShouldEqual, "alice")
			So(entries[0].Rating, ShouldAlmostEqual, 1700, 1e-6)
			So(entries[0].Interval.Low, ShouldAlmostEqual, 1700-1.96*60, 1e-6)
		})

		Convey("Leaderboard limits are checked", func() {
			So(do(mux, http.MethodGet, "/leaderboard", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/leaderboard?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			w := do(mux, http.MethodGet, "/leaderboard?limit=6", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "limit_exceeded")
		})

		Convey("A known player is returned", func() {
			w := do(mux, http.MethodGet, "/players/bob", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"rank":2`)
		})

		Convey("An unknown player is 404", func() {
			w := do(mux, http.MethodGet, "/players/carol", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(w), ShouldEqual, "not_found")
		})

		Convey("A missing player id is 400", func() {
			So(do(mux, http.MethodGet, "/players/", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Predictions need two distinct rated players", func() {
			w := do(mux, http.MethodGet, "/predict?a=alice&b=bob", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var p types.Prediction
			So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
			So(p.WinProbability, ShouldAlmostEqual, 0.75, 1e-9)

			So(do(mux, http.MethodGet, "/predict?a=alice", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/predict?a=alice&b=alice", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/predict?a=alice&b=carol", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a server", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Health reports ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Stats come from the provider", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"totalPlayers":2`)
		})

		Convey("Metrics are exposed after traffic", func() {
			_ = do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "glicko_ratings_http_requests_total")
		})

		Convey("The dashboard page is served", func() {
			w := do(mux, http.MethodGet, "/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "/leaderboard?limit=")
		})
	})
}

func TestErrorWrapping(t *testing.T) {
	Convey("Given an API error", t, func() {
		err := api.WrapKind("api.op", api.ErrBadRequest, repository.ErrInvalidLimit)

		Convey("It matches both its kind and its cause", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: invalid leaderboard limit")
		})

		Convey("Wrap keeps nil as nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
