package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/workpool/internal/config"
)

const envPrefix = "WORKPOOL"

// version is set at build time with -ldflags "-X main.version=...".
var version = "v0.0.0"

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := config.NewConfigurationWithDefaults()

	root := &cobra.Command{
		Use:           "workpool",
		Short:         "Serve requests on a fixed pool of workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("log-format", defaults.LogFormat, "Log format: console or json")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	flags.String("store-path", defaults.Store.Path, "DuckDB file holding the request history (empty: in memory)")
	mustBind(v, flags, "log-format", "log-format")
	mustBind(v, flags, "log-level", "log-level")
	mustBind(v, flags, "store.path", "store-path")

	root.AddCommand(
		newServeCommand(v, defaults),
		newHistoryCommand(v),
		newVersionCommand(),
	)
	return root
}

func mustBind(v *viper.Viper, flags *pflag.FlagSet, key, flag string) {
	if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %q: %v", flag, err))
	}
}

// loadConfiguration layers flags and WORKPOOL_* variables over the defaults.
func loadConfiguration(v *viper.Viper) (*config.Configuration, error) {
	cfg := config.NewConfigurationWithDefaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger installs the global zap logger. The returned func flushes it.
func setupLogger(format, level string) (func(), error) {
	var zc zap.Config
	if format == config.LogFormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc.Level = lvl

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	undo := zap.ReplaceGlobals(logger)

	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}
