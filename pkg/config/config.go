package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"0s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	Forecast struct {
		APIRoot string `yaml:"api_root" default:"http://localhost:8000"`
		// Zero disables the client timeout; calls run until the service answers.
		Timeout   time.Duration `yaml:"timeout" default:"0s"`
		DropStale bool          `yaml:"drop_stale"`
	} `yaml:"forecast"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled" default:"true"`
		Backend      string  `yaml:"backend" default:"memory"`
		Capacity     float64 `yaml:"capacity" default:"20"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"2"`
		Prefix       string  `yaml:"prefix" default:"fueldesk:ratelimit"`
	} `yaml:"ratelimit"`
	Redis struct {
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Journal struct {
		Backend string `yaml:"backend" default:"none"`
		Topic   string `yaml:"topic" default:"fueldesk.dispatches"`
		Table   string `yaml:"table" default:"dispatch_journal"`
		Buffer  int    `yaml:"buffer" default:"256"`
	} `yaml:"journal"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		ClientID     string        `yaml:"client_id" default:"fueldesk"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"fueldesk"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		Compression  string        `yaml:"compression" default:"lz4"`
		MaxOpenConns int           `yaml:"max_open_conns" default:"4"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`
}

// Default returns a configuration populated only from struct-tag defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides the API root from the environment.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FORECAST_API_ROOT"); v != "" {
		c.Forecast.APIRoot = v
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Forecast.APIRoot == "" {
		return fmt.Errorf("forecast.api_root is required")
	}
	u, err := url.Parse(c.Forecast.APIRoot)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("forecast.api_root must be an absolute http(s) URL, got '%s'", c.Forecast.APIRoot)
	}
	if c.Forecast.Timeout < 0 {
		return fmt.Errorf("forecast.timeout cannot be negative")
	}

	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("ratelimit.backend must be 'memory' or 'redis', got '%s'", c.RateLimit.Backend)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Capacity < 1 || c.RateLimit.RefillPerSec <= 0) {
		return fmt.Errorf("ratelimit.capacity must be >= 1 and ratelimit.refill_per_sec > 0")
	}

	switch c.Journal.Backend {
	case "none":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when journal.backend is 'kafka'")
		}
		if c.Journal.Topic == "" {
			return fmt.Errorf("journal.topic is required when journal.backend is 'kafka'")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when journal.backend is 'clickhouse'")
		}
		if c.Journal.Table == "" {
			return fmt.Errorf("journal.table is required when journal.backend is 'clickhouse'")
		}
	default:
		return fmt.Errorf("journal.backend must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Journal.Backend)
	}
	return nil
}
