package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Console   ConsoleConfig   `yaml:"console"`
	Transport TransportConfig `yaml:"transport"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// ConsoleConfig holds the console session defaults.
type ConsoleConfig struct {
	Scrollback    int           `envconfig:"CONSOLE_SCROLLBACK" default:"10000" yaml:"scrollback"`
	HistorySize   int           `envconfig:"CONSOLE_HISTORY_SIZE" default:"100" yaml:"history_size"`
	FlushInterval time.Duration `envconfig:"CONSOLE_FLUSH_INTERVAL" default:"42ms" yaml:"flush_interval"`
	Echo          bool          `envconfig:"CONSOLE_ECHO" default:"false" yaml:"echo"`
	Autoscroll    bool          `envconfig:"CONSOLE_AUTOSCROLL" default:"true" yaml:"autoscroll"`
	ShowTimestamp bool          `envconfig:"CONSOLE_SHOW_TIMESTAMP" default:"true" yaml:"show_timestamp"`
	DataMode      string        `envconfig:"CONSOLE_DATA_MODE" default:"utf8" yaml:"data_mode"`
	DisplayMode   string        `envconfig:"CONSOLE_DISPLAY_MODE" default:"plain" yaml:"display_mode"`
	LineEnding    string        `envconfig:"CONSOLE_LINE_ENDING" default:"none" yaml:"line_ending"`
}

// TransportConfig selects and configures the device transport.
type TransportConfig struct {
	// Kind is one of "tcp", "pty", "loopback".
	Kind    string `envconfig:"TRANSPORT_KIND" default:"loopback" yaml:"kind"`
	Address string `envconfig:"TRANSPORT_ADDR" default:"" yaml:"address"`
	Command string `envconfig:"TRANSPORT_COMMAND" default:"" yaml:"command"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from a YAML file layered over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Console: ConsoleConfig{
			Scrollback:    10000,
			HistorySize:   100,
			FlushInterval: 42 * time.Millisecond,
			Echo:          false,
			Autoscroll:    true,
			ShowTimestamp: true,
			DataMode:      "utf8",
			DisplayMode:   "plain",
			LineEnding:    "none",
		},
		Transport: TransportConfig{
			Kind: "loopback",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
