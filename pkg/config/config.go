package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "20s" or "5m", or from plain integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int      `yaml:"port"`
		ReadTimeout     Duration `yaml:"read_timeout"`
		WriteTimeout    Duration `yaml:"write_timeout"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Scrape struct {
		Timeout         Duration `yaml:"timeout"`
		RefreshInterval Duration `yaml:"refresh_interval"`
		MaxBodyBytes    int64    `yaml:"max_body_bytes"`
		Disabled        []string `yaml:"disabled"`
		// TTLs overrides the built-in freshness window per source ID.
		TTLs map[string]Duration `yaml:"ttls"`
	} `yaml:"scrape"`
	Cache struct {
		// Backend selects memory, redis or layered.
		Backend string `yaml:"backend"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int      `yaml:"max_attempts"`
			Linger       Duration `yaml:"linger"`
			BatchBytes   int      `yaml:"batch_bytes"`
			BatchSize    int      `yaml:"batch_size"`
			WriteTimeout Duration `yaml:"write_timeout"`
			ReadTimeout  Duration `yaml:"read_timeout"`
			Async        bool     `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string   `yaml:"group_id"`
			Workers    int      `yaml:"workers"`
			BufferSize int      `yaml:"buffer_size"`
			RetryMax   int      `yaml:"retry_max"`
			BackoffMin Duration `yaml:"backoff_min"`
			BackoffMax Duration `yaml:"backoff_max"`
			DLQTopic   string   `yaml:"dlq_topic"`
			MinBytes   int      `yaml:"min_bytes"`
			MaxBytes   int      `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	History struct {
		Enabled    bool   `yaml:"enabled"`
		Table      string `yaml:"table"`
		ClickHouse struct {
			Host             string   `yaml:"host"`
			Port             int      `yaml:"port"`
			Database         string   `yaml:"database"`
			User             string   `yaml:"user"`
			Password         string   `yaml:"password"`
			UseHTTP          bool     `yaml:"use_http"`
			AsyncInsert      bool     `yaml:"async_insert"`
			WaitForAsync     bool     `yaml:"wait_for_async_insert"`
			DialTimeout      Duration `yaml:"dial_timeout"`
			ReadTimeout      Duration `yaml:"read_timeout"`
			WriteTimeout     Duration `yaml:"write_timeout"`
			MaxExecutionTime Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"history"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.History.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Cache.Backend {
	case "", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.History.Enabled && c.History.ClickHouse.Host == "" {
		return fmt.Errorf("history.clickhouse.host is required when history is enabled")
	}
	return nil
}

// SourceDisabled reports whether a source ID is switched off.
func (c *Config) SourceDisabled(id string) bool {
	for _, d := range c.Scrape.Disabled {
		if d == id {
			return true
		}
	}
	return false
}

// SourceTTL returns the configured TTL override for a source, or def.
func (c *Config) SourceTTL(id string, def time.Duration) time.Duration {
	if ttl, ok := c.Scrape.TTLs[id]; ok && ttl > 0 {
		return ttl.Std()
	}
	return def
}
