package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Configuration struct {
	Server    Server `mapstructure:"server"`
	Pool      Pool   `mapstructure:"pool"`
	Store     Store  `mapstructure:"store"`
	LogFormat string `mapstructure:"log-format" default:"console"`
	LogLevel  string `mapstructure:"log-level" default:"info"`
}

type Server struct {
	Address        string        `mapstructure:"address" default:"127.0.0.1:7878"`
	MaxConnections int           `mapstructure:"max-connections" default:"0"`
	ReadBufferSize int           `mapstructure:"read-buffer-size" default:"512"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout" default:"10s"`
	SleepDelay     time.Duration `mapstructure:"sleep-delay" default:"5s"`
	StaticsFolder  string        `mapstructure:"statics-folder" default:"."`
}

type Pool struct {
	Name    string `mapstructure:"name" default:"http"`
	Workers int    `mapstructure:"workers" default:"8"`
}

type Store struct {
	// Path of the DuckDB file. Empty keeps the history in memory.
	Path string `mapstructure:"path"`
}

// NewConfigurationWithDefaults returns a configuration populated from the default tags.
func NewConfigurationWithDefaults() *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		// only reachable with malformed default tags
		panic(err)
	}
	return c
}

func (c *Configuration) Validate() error {
	var errs []error

	if c.Pool.Workers <= 0 {
		errs = append(errs, fmt.Errorf("pool workers must be greater than zero, got %d", c.Pool.Workers))
	}
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server address is empty"))
	}
	if c.Server.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("max connections must not be negative, got %d", c.Server.MaxConnections))
	}
	if c.Server.ReadBufferSize <= 0 {
		errs = append(errs, fmt.Errorf("read buffer size must be greater than zero, got %d", c.Server.ReadBufferSize))
	}
	if c.Server.SleepDelay < 0 {
		errs = append(errs, fmt.Errorf("sleep delay must not be negative, got %s", c.Server.SleepDelay))
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be %q or %q", c.LogFormat, LogFormatConsole, LogFormatJSON))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// DebugMap returns the configuration as a flat map for startup logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"server.address":          c.Server.Address,
		"server.max-connections":  c.Server.MaxConnections,
		"server.read-buffer-size": c.Server.ReadBufferSize,
		"server.read-timeout":     c.Server.ReadTimeout.String(),
		"server.sleep-delay":      c.Server.SleepDelay.String(),
		"server.statics-folder":   c.Server.StaticsFolder,
		"pool.name":               c.Pool.Name,
		"pool.workers":            c.Pool.Workers,
		"store.path":              c.Store.Path,
		"log-format":              c.LogFormat,
		"log-level":               c.LogLevel,
	}
}
