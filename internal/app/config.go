package app

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultWorkers is used when Config.Workers is left at zero.
const DefaultWorkers = 4

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are files or directories holding .hcl, .yaml, .yml or .json
	// graph documents. With none, only the built-in operators are available.
	Paths []string

	LogFormat string
	LogLevel  string

	// Workers bounds how many targets are evaluated at once.
	Workers int

	HealthcheckPort int

	PublishURL       string
	PublishNamespace string
	PublishInsecure  bool
}

// NewConfig validates cfg, fills in defaults and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	for _, p := range cfg.Paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("graph paths cannot be empty"))
			break
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !contains(logLevels, cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log level '%s', expected one of %s", cfg.LogLevel, strings.Join(logLevels, ", ")))
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !contains(logFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log format '%s', expected one of %s", cfg.LogFormat, strings.Join(logFormats, ", ")))
	}

	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", cfg.Workers))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
