package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"peercore/pkg/validation"
)

// Config is the worker's full runtime configuration, loaded once at
// startup. Every section below is ambient — the Peer core itself takes its
// parameters as Go values from its callers, never reads this struct
// directly.
type Config struct {
	Admin struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"admin"`

	Channel struct {
		Address         string        `yaml:"address"`
		PingInterval    time.Duration `yaml:"ping_interval"`
		PongTimeout     time.Duration `yaml:"pong_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"channel"`

	RTCP struct {
		MaxVideoIntervalMs int `yaml:"max_video_interval_ms"`
		BufferSizeBytes    int `yaml:"buffer_size_bytes"`
	} `yaml:"rtcp"`

	Monitoring struct {
		PrometheusEnabled bool          `yaml:"prometheus_enabled"`
		PrometheusPort    int           `yaml:"prometheus_port"`
		MetricsInterval   time.Duration `yaml:"metrics_interval"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Auth struct {
		JWTSecret      string        `yaml:"jwt_secret"`
		AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"auth"`

	RateLimiting struct {
		Enabled bool `yaml:"enabled"`

		PerPeerRequest struct {
			RequestsPerSecond float64 `yaml:"requests_per_second"`
			Burst             int     `yaml:"burst"`
		} `yaml:"per_peer_request"`

		Channel struct {
			ConnectionsPerMinute int     `yaml:"connections_per_minute"`
			MessagesPerSecond    float64 `yaml:"messages_per_second"`
			Burst                int     `yaml:"burst"`
			MaxMessageSizeBytes  int64   `yaml:"max_message_size_bytes"`
		} `yaml:"channel"`
	} `yaml:"rate_limiting"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if err := validation.ValidateNonEmptyString(c.Admin.Address, "admin.address"); err != nil {
		return err
	}
	if c.Admin.ReadTimeout <= 0 {
		return fmt.Errorf("admin.read_timeout must be > 0")
	}
	if c.Admin.WriteTimeout <= 0 {
		return fmt.Errorf("admin.write_timeout must be > 0")
	}
	if c.Admin.ShutdownTimeout <= 0 {
		return fmt.Errorf("admin.shutdown_timeout must be > 0")
	}

	if err := validation.ValidateNonEmptyString(c.Channel.Address, "channel.address"); err != nil {
		return err
	}
	if c.Channel.PingInterval <= 0 {
		return fmt.Errorf("channel.ping_interval must be > 0")
	}
	if c.Channel.PongTimeout <= 0 {
		return fmt.Errorf("channel.pong_timeout must be > 0")
	}

	if c.RTCP.MaxVideoIntervalMs <= 0 {
		return fmt.Errorf("rtcp.max_video_interval_ms must be > 0")
	}
	if c.RTCP.BufferSizeBytes <= 0 {
		return fmt.Errorf("rtcp.buffer_size_bytes must be > 0")
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort <= 0 {
		return fmt.Errorf("monitoring.prometheus_port must be > 0 when prometheus_enabled=true")
	}

	if err := validation.ValidateNonEmptyString(c.Logging.Level, "logging.level"); err != nil {
		return err
	}

	if err := validation.ValidateNonEmptyString(c.Auth.JWTSecret, "auth.jwt_secret"); err != nil {
		return err
	}

	if c.RateLimiting.Enabled {
		if c.RateLimiting.PerPeerRequest.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.per_peer_request.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.PerPeerRequest.Burst <= 0 {
			return fmt.Errorf("rate_limiting.per_peer_request.burst must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Channel.ConnectionsPerMinute <= 0 {
			return fmt.Errorf("rate_limiting.channel.connections_per_minute must be > 0 when rate limiting is enabled")
		}
	}

	return nil
}

// Load reads configuration from a YAML file, applying defaults and
// environment overrides. A missing file is not an error: it falls back to
// DefaultConfig plus env overrides, matching local-dev and container
// deployments where config may be entirely environment-driven.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Admin.Address = ":8080"
	cfg.Admin.ReadTimeout = 30 * time.Second
	cfg.Admin.WriteTimeout = 30 * time.Second
	cfg.Admin.ShutdownTimeout = 30 * time.Second

	cfg.Channel.Address = ":8081"
	cfg.Channel.PingInterval = 30 * time.Second
	cfg.Channel.PongTimeout = 60 * time.Second
	cfg.Channel.ShutdownTimeout = 30 * time.Second

	cfg.RTCP.MaxVideoIntervalMs = 1000
	cfg.RTCP.BufferSizeBytes = 65536

	cfg.Monitoring.PrometheusEnabled = true
	cfg.Monitoring.PrometheusPort = 9090
	cfg.Monitoring.MetricsInterval = 30 * time.Second

	cfg.Tracing.Enabled = false
	cfg.Tracing.ServiceName = "peercore"
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 0.1

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.AllowedOrigins = []string{"*"}

	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.PerPeerRequest.RequestsPerSecond = 100
	cfg.RateLimiting.PerPeerRequest.Burst = 200
	cfg.RateLimiting.Channel.ConnectionsPerMinute = 60
	cfg.RateLimiting.Channel.MessagesPerSecond = 200
	cfg.RateLimiting.Channel.Burst = 400
	cfg.RateLimiting.Channel.MaxMessageSizeBytes = 64 * 1024

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("PEERCORE_ADMIN_ADDRESS"); addr != "" {
		c.Admin.Address = addr
	}
	if addr := os.Getenv("PEERCORE_CHANNEL_ADDRESS"); addr != "" {
		c.Channel.Address = addr
	}
	if level := os.Getenv("PEERCORE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("PEERCORE_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
}
