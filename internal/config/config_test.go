package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/okian/talentmatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.EvaluationYear, convey.ShouldEqual, 2025)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 4096)
			convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 1000)
		})

		convey.Convey("Then the default weight table should validate", func() {
			w, err := cfg.Weights()
			convey.So(err, convey.ShouldBeNil)
			convey.So(w.Sum(), convey.ShouldAlmostEqual, 1.0, 0.001)
		})
	})
}
