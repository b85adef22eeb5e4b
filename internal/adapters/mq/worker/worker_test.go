package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/glicko/internal/adapters/mq/queue"
	"github.com/okian/glicko/internal/adapters/mq/worker"
	"github.com/okian/glicko/internal/domain/model"
	"github.com/okian/glicko/internal/domain/rating"
	logging "github.com/okian/glicko/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	games chan model.Game
}

func newMockQueue() *mockQueue {
	return &mockQueue{games: make(chan model.Game, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Game { return mq.games }

func (mq *mockQueue) Close() error {
	close(mq.games)
	return nil
}

type mockRecorder struct {
	mu       sync.Mutex
	recorded []string
	fail     map[string]error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{fail: make(map[string]error)}
}

func (mr *mockRecorder) Record(_ context.Context, g model.Game) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if err, ok := mr.fail[g.GameID]; ok {
		return err
	}
	mr.recorded = append(mr.recorded, g.GameID)
	return nil
}

func (mr *mockRecorder) ids() []string {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return append([]string(nil), mr.recorded...)
}

func game(id string) model.Game {
	return model.Game{GameID: id, PlayerA: "alice", PlayerB: "bob", Result: rating.Draw, TS: time.Now()}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a mock queue", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		rec := newMockRecorder()
		w := worker.NewInMemoryWorker(q, rec, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When games arrive", func() {
			q.games <- game("g1")
			q.games <- game("g2")

			convey.Convey("Then they are recorded in order", func() {
				convey.So(func() bool {
					deadline := time.Now().Add(time.Second)
					for time.Now().Before(deadline) {
						if len(rec.ids()) == 2 {
							return true
						}
						time.Sleep(5 * time.Millisecond)
					}
					return false
				}(), convey.ShouldBeTrue)
				convey.So(rec.ids(), convey.ShouldResemble, []string{"g1", "g2"})
			})
		})

		convey.Convey("When recording fails", func() {
			rec.mu.Lock()
			rec.fail["bad"] = errors.New("boom")
			rec.mu.Unlock()

			q.games <- game("bad")
			q.games <- game("good")

			convey.Convey("Then the worker keeps going", func() {
				deadline := time.Now().Add(time.Second)
				for time.Now().Before(deadline) && len(rec.ids()) == 0 {
					time.Sleep(5 * time.Millisecond)
				}
				convey.So(rec.ids(), convey.ShouldResemble, []string{"good"})
			})
		})

		convey.Convey("When shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
		rec := newMockRecorder()
		pool := worker.NewPool(4, q, rec)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx := context.Background()
		pool.Start(ctx)

		for i := range 200 {
			convey.So(q.Enqueue(ctx, game(fmt.Sprintf("g%d", i))), convey.ShouldBeNil)
		}

		convey.Convey("When the pool shuts down", func() {
			sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := pool.Shutdown(sctx)

			convey.Convey("Then every queued game has been recorded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(rec.ids()), convey.ShouldEqual, 200)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPoolDefaultSize(t *testing.T) {
	convey.Convey("A non-positive worker count falls back to a CPU multiple", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue(), newMockRecorder())
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
