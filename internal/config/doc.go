// Package config defines the configuration structure for workpool.
//
// Configuration is organized into logical sections (Server, Pool, Store).
// Defaults come from `default` struct tags applied by creasty/defaults; the
// `mapstructure` tags are the keys viper uses when the CLI unmarshals flags
// and WORKPOOL_* environment variables on top of the defaults.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - connection front end
//	├── Pool           - worker pool
//	├── Store          - request history
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬──────────────────┬────────────────────────────────────────┐
//	│ Field            │ Default          │ Description                            │
//	├──────────────────┼──────────────────┼────────────────────────────────────────┤
//	│ Address          │ "127.0.0.1:7878" │ TCP listen address                     │
//	│ MaxConnections   │ 0                │ Stop after N connections (0: no limit) │
//	│ ReadBufferSize   │ 512              │ Request read buffer in bytes           │
//	│ ReadTimeout      │ 10s              │ Deadline for reading one request       │
//	│ SleepDelay       │ 5s               │ Delay applied by GET /sleep            │
//	│ StaticsFolder    │ "."              │ Folder holding hello.html and 404.html │
//	└──────────────────┴──────────────────┴────────────────────────────────────────┘
//
// # Pool Configuration
//
//	┌─────────┬─────────┬──────────────────────────────────────────┐
//	│ Field   │ Default │ Description                              │
//	├─────────┼─────────┼──────────────────────────────────────────┤
//	│ Name    │ "http"  │ Pool name used in logs and metric labels │
//	│ Workers │ 8       │ Number of worker goroutines (must be >0) │
//	└─────────┴─────────┴──────────────────────────────────────────┘
//
// # Store Configuration
//
//	┌───────┬─────────┬───────────────────────────────────────────────┐
//	│ Field │ Default │ Description                                   │
//	├───────┼─────────┼───────────────────────────────────────────────┤
//	│ Path  │ ""      │ DuckDB file path; empty keeps data in memory  │
//	└───────┴─────────┴───────────────────────────────────────────────┘
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithDefaults()
//	cfg.Pool.Workers = 4
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Debug Logging
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
