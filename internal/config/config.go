// Package config loads the console client configuration from YAML with
// sensible defaults, mirroring the platform's documented settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects how events reach the session.
const (
	ModeRealtime = "realtime"
	ModePolling  = "polling"
)

type Config struct {
	// Mode is "realtime" (WebSocket push) or "polling" (REST polling).
	Mode     string         `yaml:"mode"`
	API      APIConfig      `yaml:"api"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Polling  PollingConfig  `yaml:"polling"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

type RealtimeConfig struct {
	// URL overrides the derived WebSocket endpoint when set.
	URL               string        `yaml:"url"`
	KeepaliveInterval time.Duration `yaml:"keepalive_interval"`
	BackoffMin        time.Duration `yaml:"backoff_min"`
	BackoffMax        time.Duration `yaml:"backoff_max"`
	BackoffFactor     float64       `yaml:"backoff_factor"`
}

type PollingConfig struct {
	GameInterval  time.Duration `yaml:"game_interval"`
	ChatInterval  time.Duration `yaml:"chat_interval"`
	MatchInterval time.Duration `yaml:"match_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode: ModeRealtime,
		API: APIConfig{
			BaseURL: "http://localhost:3001",
		},
		Realtime: RealtimeConfig{
			KeepaliveInterval: 25 * time.Second,
			BackoffMin:        400 * time.Millisecond,
			BackoffMax:        6 * time.Second,
			BackoffFactor:     1.6,
		},
		Polling: PollingConfig{
			GameInterval:  1200 * time.Millisecond,
			ChatInterval:  2 * time.Second,
			MatchInterval: 1500 * time.Millisecond,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is an
// error; callers that treat the file as optional should check os.IsNotExist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Mode != ModeRealtime && cfg.Mode != ModePolling {
		return nil, fmt.Errorf("config %s: unknown mode %q", path, cfg.Mode)
	}
	return cfg, nil
}
