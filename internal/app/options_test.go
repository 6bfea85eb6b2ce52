package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	service "github.com/okian/toto/internal/app"
	"github.com/okian/toto/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromConfig(t *testing.T) {
	Convey("Given a config with an events file and custom pricing", t, func() {
		path := filepath.Join(t.TempDir(), "events.json")
		var events []byte
		events = append(events, '[')
		for i := 0; i < 15; i++ {
			if i > 0 {
				events = append(events, ',')
			}
			events = append(events, []byte(`{"home":"A","away":"B"}`)...)
		}
		events = append(events, ']')
		So(os.WriteFile(path, events, 0o600), ShouldBeNil)

		cfg := config.New()
		cfg.EventsFile = path
		cfg.Cutoff = 100
		cfg.UnitCost = 2.5
		cfg.Currency = "EUR"
		cfg.SessionIdleTTLMS = 60_000

		Convey("When a service is built from it", func() {
			svc := service.New(service.FromConfig(cfg)...)
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the settings and the slate source should follow", func() {
				stats := svc.GetStats()
				So(stats["cutoff"], ShouldEqual, 100)
				So(stats["unitCost"], ShouldEqual, 2.5)
				So(stats["currency"], ShouldEqual, "EUR")
				So(stats["slateSource"], ShouldEqual, "file")
				So(stats["sessionIdleTTL"], ShouldEqual, "1m0s")
			})

			Convey("And refreshing should report no schedule source", func() {
				_, err := svc.RefreshSchedule(context.Background())
				So(errors.Is(err, service.ErrNoScheduleSource), ShouldBeTrue)
			})
		})
	})
}
