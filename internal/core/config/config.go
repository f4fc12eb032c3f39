package config

import (
	"time"

	"github.com/vietddude/mender/internal/infra/notify"
	"github.com/vietddude/mender/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Healing    HealingConfig    `yaml:"healing"`
	Redis      notify.Config    `yaml:"redis"`
	Database   postgres.Config  `yaml:"database"`
	Strategies []StrategyConfig `yaml:"strategies"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// HealingConfig holds engine-level settings. Duration fields accept Go
// duration strings ("24h", "30m") and are parsed during Load.
type HealingConfig struct {
	HistoryLimit    int    `yaml:"history_limit"`
	Retention       string `yaml:"retention"`
	JanitorInterval string `yaml:"janitor_interval"`

	RetentionD    time.Duration `yaml:"-"`
	JanitorPeriod time.Duration `yaml:"-"`
}

// StrategyConfig declares one recovery strategy. Action bodies are
// resolved at wiring time from the built-in action set by type.
type StrategyConfig struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	ErrorKinds []string       `yaml:"error_kinds"`
	Category   string         `yaml:"category"`
	Severities []string       `yaml:"severities"`
	MaxPerHour int            `yaml:"max_per_hour"` // 0 = unlimited
	Cooldown   string         `yaml:"cooldown"`     // "" = none
	Actions    []ActionConfig `yaml:"actions"`

	CooldownD time.Duration `yaml:"-"`
}

// ActionConfig declares one action inside a strategy.
type ActionConfig struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Timeout     string `yaml:"timeout"`
	MaxAttempts int    `yaml:"max_attempts"`

	TimeoutD time.Duration `yaml:"-"`
}
