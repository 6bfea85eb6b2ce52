package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/toto/internal/config"
	"github.com/okian/toto/internal/domain/filter"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Cutoff, convey.ShouldEqual, 20000)
			convey.So(cfg.UnitCost, convey.ShouldEqual, 10)
			convey.So(cfg.Currency, convey.ShouldEqual, "TL")
			convey.So(cfg.PreviewLimit, convey.ShouldEqual, 500)
			convey.So(cfg.PreviewThreshold, convey.ShouldEqual, 1000)
			convey.So(cfg.ScheduleTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.SessionIdleTTL(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(1<<20))
			convey.So(cfg.Constraints, convey.ShouldResemble, filter.DefaultConfig())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the cutoff is zero", func() {
			cfg.Cutoff = 0

			convey.Convey("Then validation should fail", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "cutoff")
			})
		})

		convey.Convey("When the preview limit exceeds the threshold", func() {
			cfg.PreviewLimit = 2000

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the default constraints are out of range", func() {
			cfg.Constraints.Group2Draws.Max = 8

			convey.Convey("Then the constraint error should be wrapped", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, filter.ErrInvalidConstraint), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the session idle TTL is negative", func() {
			cfg.SessionIdleTTLMS = -1

			convey.Convey("Then validation should fail", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "session_idle_ttl_ms")
			})
		})

		convey.Convey("When the body cap is zero", func() {
			cfg.MaxBodyBytes = 0

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the unit cost is negative", func() {
			cfg.UnitCost = -1

			convey.Convey("Then validation should fail", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}
