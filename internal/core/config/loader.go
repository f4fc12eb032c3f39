package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.Healing.HistoryLimit == 0 {
		cfg.Healing.HistoryLimit = 100
	}

	var err error
	cfg.Healing.RetentionD, err = parseDuration(cfg.Healing.Retention, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("invalid healing.retention: %w", err)
	}
	cfg.Healing.JanitorPeriod, err = parseDuration(cfg.Healing.JanitorInterval, time.Hour)
	if err != nil {
		return fmt.Errorf("invalid healing.janitor_interval: %w", err)
	}

	for i := range cfg.Strategies {
		s := &cfg.Strategies[i]
		if s.ID == "" {
			return fmt.Errorf("strategy %d is missing an id", i)
		}
		s.CooldownD, err = parseDuration(s.Cooldown, 0)
		if err != nil {
			return fmt.Errorf("strategy %s: invalid cooldown: %w", s.ID, err)
		}
		for j := range s.Actions {
			a := &s.Actions[j]
			a.TimeoutD, err = parseDuration(a.Timeout, 30*time.Second)
			if err != nil {
				return fmt.Errorf("strategy %s: invalid action timeout: %w", s.ID, err)
			}
			if a.MaxAttempts < 1 {
				a.MaxAttempts = 1
			}
		}
	}

	return nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
