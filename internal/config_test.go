package internal_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-admin/internal"
)

var _ = Describe("Config", func() {
	valid := func() *internal.Config {
		return &internal.Config{
			Server: internal.ServerConfig{
				Port:              8080,
				AllowedOrigins:    "*",
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
			},
			Database: internal.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 2},
			Security: internal.SecurityConfig{
				AccessTokenSecret:  "access-secret-access-secret-0123456",
				RefreshTokenSecret: "refresh-secret-refresh-secret-01234",
				BCryptCost:         12,
			},
			Scheduler: internal.SchedulerConfig{TimelineDigest: "0 8 * * 1-5"},
		}
	}

	It("accepts a complete configuration", func() {
		Expect(valid().Validate()).To(Succeed())
	})

	It("requires distinct token secrets", func() {
		cfg := valid()
		cfg.Security.RefreshTokenSecret = cfg.Security.AccessTokenSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must differ")))
	})

	It("rejects short secrets", func() {
		cfg := valid()
		cfg.Security.AccessTokenSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("at least 32")))
	})

	It("rejects a malformed digest schedule", func() {
		cfg := valid()
		cfg.Scheduler.TimelineDigest = "every monday"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("timeline_digest")))
	})

	It("rejects more idle than open connections", func() {
		cfg := valid()
		cfg.Database.MaxIdleConns = 20
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("collects every section's failure", func() {
		cfg := valid()
		cfg.Notifications.Buffer = -1
		cfg.Security.BCryptCost = 4
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("notifications config")))
		Expect(err).To(MatchError(ContainSubstring("security config")))
	})

	Describe("LoadConfigFromEnv", func() {
		It("reads overrides and keeps defaults", func() {
			GinkgoT().Setenv("HTTP_PORT", "9090")
			GinkgoT().Setenv("SSE_HEARTBEAT", "10s")
			GinkgoT().Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Server.Port).To(Equal(9090))
			Expect(cfg.Notifications.Heartbeat).To(Equal(10 * time.Second))
			Expect(cfg.Database.MaxOpenConns).To(Equal(25))
			Expect(cfg.Server.WriteTimeout).To(BeZero())
		})
	})
})
