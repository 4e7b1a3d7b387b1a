// Package config loads enableapp command settings from the environment.
//
// Every variable carries the ENABLEAPP_ prefix. A .env file in the working
// directory is loaded first when present; variables already set in the
// environment win over it.
//
//	ENABLEAPP_DEBUG=1              shorthand for ENABLEAPP_LOG_LEVEL=debug
//	ENABLEAPP_LOG_LEVEL=info       debug, info, warn, error
//	ENABLEAPP_LOG_FORMAT=text      text or json
//	ENABLEAPP_LOG_FILE=path        also log to a rotating file
//	ENABLEAPP_LOG_TIME=1           keep timestamps in text logs
//	ENABLEAPP_OUTPUT=table         table, json, yaml
//	ENABLEAPP_TIMEOUT=0            per-item limit, 0 means none
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tmc/enableapp"
	"github.com/tmc/enableapp/internal/logging"
)

// Prefix is prepended to every environment variable name.
const Prefix = "ENABLEAPP_"

// Config holds the command's ambient settings.
type Config struct {
	Debug bool `env:"DEBUG"`

	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile           string `env:"LOG_FILE"`
	LogFileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"10"`
	LogFileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3"`
	LogFileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"30"`
	LogTime           bool   `env:"LOG_TIME"`

	// Output is the result log format.
	Output string `env:"OUTPUT" envDefault:"table"`

	// Timeout bounds each clearing command. Zero means wait indefinitely.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}
	return parse(env.Options{Prefix: Prefix})
}

// Parse reads settings from environ instead of the process environment.
// Keys include the prefix, e.g. "ENABLEAPP_OUTPUT".
func Parse(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Sanitize normalizes case and applies the Debug shorthand.
func (c *Config) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.Debug {
		c.LogLevel = "debug"
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid %sLOG_LEVEL %q", Prefix, c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid %sLOG_FORMAT %q", Prefix, c.LogFormat)
	}
	if !slices.Contains(enableapp.Formats, c.Output) {
		return fmt.Errorf("invalid %sOUTPUT %q (want one of %s)", Prefix, c.Output, strings.Join(enableapp.Formats, ", "))
	}
	return nil
}

// Logging returns the logging settings.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:          c.LogLevel,
		Format:         c.LogFormat,
		FilePath:       c.LogFile,
		FileMaxSizeMB:  c.LogFileMaxSizeMB,
		FileMaxBackups: c.LogFileMaxBackups,
		FileMaxAgeDays: c.LogFileMaxAgeDays,
		ShowTime:       c.LogTime,
	}
}
