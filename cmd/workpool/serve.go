package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/workpool/internal/config"
	"github.com/kubev2v/workpool/internal/handlers"
	"github.com/kubev2v/workpool/internal/server"
	"github.com/kubev2v/workpool/internal/store"
	"github.com/kubev2v/workpool/internal/store/migrations"
	"github.com/kubev2v/workpool/pkg/pool"
)

func newServeCommand(v *viper.Viper, defaults *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept connections and serve them on the worker pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(v)
			if err != nil {
				return err
			}
			flush, err := setupLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer flush()

			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("address", defaults.Server.Address, "TCP address to listen on")
	flags.Int("max-connections", defaults.Server.MaxConnections, "Stop after this many connections (0: no limit)")
	flags.Int("read-buffer-size", defaults.Server.ReadBufferSize, "Request read buffer size in bytes")
	flags.Duration("read-timeout", defaults.Server.ReadTimeout, "Deadline for reading a request")
	flags.Duration("sleep-delay", defaults.Server.SleepDelay, "Delay applied by GET /sleep")
	flags.String("statics-folder", defaults.Server.StaticsFolder, "Folder holding hello.html and 404.html")
	flags.Int("workers", defaults.Pool.Workers, "Number of pool workers")
	flags.String("pool-name", defaults.Pool.Name, "Pool name used in logs and metrics")

	mustBind(v, flags, "server.address", "address")
	mustBind(v, flags, "server.max-connections", "max-connections")
	mustBind(v, flags, "server.read-buffer-size", "read-buffer-size")
	mustBind(v, flags, "server.read-timeout", "read-timeout")
	mustBind(v, flags, "server.sleep-delay", "sleep-delay")
	mustBind(v, flags, "server.statics-folder", "statics-folder")
	mustBind(v, flags, "pool.workers", "workers")
	mustBind(v, flags, "pool.name", "pool-name")

	return cmd
}

func serve(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("serve")
	log.Infow("configuration loaded", "config", cfg.DebugMap())

	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return err
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	st := store.NewStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			log.Warnw("failed to close store", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := pool.NewPool(cfg.Pool.Workers,
		pool.WithName(cfg.Pool.Name),
		pool.WithMetrics(pool.NewMetrics(registry)),
	)

	h := handlers.New(cfg.Server, st.Requests(), registry)
	srv := server.NewServer(cfg.Server, p, func(router *gin.Engine) {
		handlers.RegisterHandlers(router, h)
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := srv.Start(ctx)

	log.Info("shutting down")
	closeErr := p.Close()
	if closeErr != nil {
		log.Errorw("pool shut down with errors", "error", closeErr)
	}
	return errors.Join(serveErr, closeErr)
}
