package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerURL    string        `env:"CHAT_SERVER_URL" envDefault:"ws://localhost:7070"`
	LogLevel     string        `env:"CHAT_LOG_LEVEL" envDefault:"info"`
	MetricsAddr  string        `env:"CHAT_METRICS_ADDR"`
	PullTimeout  time.Duration `env:"CHAT_PULL_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"CHAT_WRITE_TIMEOUT" envDefault:"10s"`
	MaxFrameSize int           `env:"CHAT_MAX_FRAME_SIZE" envDefault:"16777216"`

	CommandPrefix    string        `env:"CHAT_COMMAND_PREFIX" envDefault:"/get"`
	LocationKeywords []string      `env:"CHAT_LOCATION_KEYWORDS" envDefault:"погода" envSeparator:","`
	NoticeDuration   time.Duration `env:"CHAT_NOTICE_DURATION" envDefault:"2500ms"`

	// 终端下的设备替身
	Latitude      *float64 `env:"CHAT_LATITUDE"`
	Longitude     *float64 `env:"CHAT_LONGITUDE"`
	RecordingPath string   `env:"CHAT_RECORDING_PATH"`
	ViewportLines int      `env:"CHAT_VIEWPORT_LINES" envDefault:"24"`
}

// Load 从环境变量读取配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server url must use ws or wss, got %q", c.ServerURL)
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("command prefix must not be empty")
	}
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return fmt.Errorf("CHAT_LATITUDE and CHAT_LONGITUDE must be set together")
	}
	if c.ViewportLines <= 0 {
		c.ViewportLines = 24
	}
	return nil
}
