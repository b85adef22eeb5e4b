package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func familyNames(reg *prometheus.Registry) map[string]bool {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom naming", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithPrometheusRegistry(registry),
			)
			manager.periodCloses.Inc()
			manager.totalPlayers.Set(3)

			Convey("Then collectors are registered under that namespace", func() {
				names := familyNames(registry)
				So(names["test_unit_period_closes_total"], ShouldBeTrue)
				So(names["test_unit_total_players"], ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "glicko")
				So(manager.subsystem, ShouldEqual, "ratings")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording ingestion metrics", func() {
			So(func() {
				RecordGameAccepted()
				RecordGameDuplicate()
				RecordGameRejected("invalid_game")
			}, ShouldNotPanic)
		})

		Convey("When recording period metrics", func() {
			So(func() {
				RecordPeriodClose(12.5, 40)
				RecordSolverIterations(3)
				UpdatePendingGames(7)
				UpdateTotalPlayers(40)
				UpdateCurrentPeriod(2)
				RecordRepositoryUpdateLatency(0.5)
				RecordRepositoryQueryLatency(0.1)
			}, ShouldNotPanic)
		})

		Convey("When recording queue and worker metrics", func() {
			So(func() {
				UpdateQueueSize(10)
				UpdateQueueCapacity(100)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(1.5)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("/games", "POST", "202")
				RecordHTTPRequestDuration("/games", "POST", "202", 2.0)
				RecordErrorByComponent("ledger", "cancelled")
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry exposes them", func() {
			RecordPeriodClose(1, 2)
			names := familyNames(GetRegistry())
			So(names["glicko_ratings_period_closes_total"], ShouldBeTrue)
			So(names["glicko_ratings_rating_updates_total"], ShouldBeTrue)
			So(names["glicko_ratings_period_close_duration_milliseconds"], ShouldBeTrue)
		})
	})
}
