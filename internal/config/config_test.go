package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/netninja/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, "127.0.0.1:9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverFile)
			convey.So(cfg.TracerTick(), convey.ShouldEqual, 100*time.Millisecond)
			convey.So(cfg.HintDelay(), convey.ShouldEqual, 600*time.Millisecond)
			convey.So(cfg.FirewallDifficulty, convey.ShouldEqual, "agent")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with a broken field", t, func() {
		cases := map[string]func(*config.Config){
			"driver":     func(c *config.Config) { c.StoreDriver = "etcd" },
			"path":       func(c *config.Config) { c.StoreDriver, c.StorePath = config.DriverSQLite, "" },
			"difficulty": func(c *config.Config) { c.FirewallDifficulty = "godlike" },
			"format":     func(c *config.Config) { c.LogFormat = "xml" },
			"tick":       func(c *config.Config) { c.TracerTickMS = 0 },
			"queue":      func(c *config.Config) { c.RewardQueueSize = -1 },
			"timezone":   func(c *config.Config) { c.DailyTimezone = "Mars/Olympus" },
			"addr":       func(c *config.Config) { c.Addr = "" },
		}

		for _, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})

	convey.Convey("Given a valid IANA timezone", t, func() {
		cfg := config.New()
		cfg.DailyTimezone = "UTC"

		loc, err := cfg.Location()
		convey.So(err, convey.ShouldBeNil)
		convey.So(loc, convey.ShouldEqual, time.UTC)
	})
}
