package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/workpool/internal/config"
)

var _ = Describe("Configuration", func() {
	It("should apply defaults", func() {
		cfg := config.NewConfigurationWithDefaults()

		Expect(cfg.Server.Address).To(Equal("127.0.0.1:7878"))
		Expect(cfg.Server.MaxConnections).To(BeZero())
		Expect(cfg.Server.ReadBufferSize).To(Equal(512))
		Expect(cfg.Server.ReadTimeout).To(Equal(10 * time.Second))
		Expect(cfg.Server.SleepDelay).To(Equal(5 * time.Second))
		Expect(cfg.Server.StaticsFolder).To(Equal("."))
		Expect(cfg.Pool.Workers).To(Equal(8))
		Expect(cfg.Pool.Name).To(Equal("http"))
		Expect(cfg.Store.Path).To(BeEmpty())
		Expect(cfg.LogFormat).To(Equal(config.LogFormatConsole))
		Expect(cfg.LogLevel).To(Equal("info"))
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("Validate",
		func(mutate func(*config.Configuration), valid bool) {
			cfg := config.NewConfigurationWithDefaults()
			mutate(cfg)
			if valid {
				Expect(cfg.Validate()).To(Succeed())
			} else {
				Expect(cfg.Validate()).NotTo(Succeed())
			}
		},
		Entry("single worker", func(c *config.Configuration) { c.Pool.Workers = 1 }, true),
		Entry("zero workers", func(c *config.Configuration) { c.Pool.Workers = 0 }, false),
		Entry("negative workers", func(c *config.Configuration) { c.Pool.Workers = -1 }, false),
		Entry("empty address", func(c *config.Configuration) { c.Server.Address = "" }, false),
		Entry("negative connection limit", func(c *config.Configuration) { c.Server.MaxConnections = -1 }, false),
		Entry("zero read buffer", func(c *config.Configuration) { c.Server.ReadBufferSize = 0 }, false),
		Entry("json logs", func(c *config.Configuration) { c.LogFormat = config.LogFormatJSON }, true),
		Entry("unknown log format", func(c *config.Configuration) { c.LogFormat = "xml" }, false),
		Entry("unknown log level", func(c *config.Configuration) { c.LogLevel = "trace" }, false),
	)

	It("should expose every field in the debug map", func() {
		cfg := config.NewConfigurationWithDefaults()

		m := cfg.DebugMap()
		Expect(m).To(HaveKeyWithValue("pool.workers", 8))
		Expect(m).To(HaveKeyWithValue("server.address", "127.0.0.1:7878"))
		Expect(m).To(HaveKeyWithValue("server.sleep-delay", "5s"))
	})
})
