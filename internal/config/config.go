package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultBackendURL is the hosted planner API.
const DefaultBackendURL = "https://smart-travel-planner-app-backend-production.up.railway.app/api"

// Activity sink selectors for ACTIVITY_SINK.
const (
	ActivitySinkNone    = "none"
	ActivitySinkBackend = "backend"
	ActivitySinkKafka   = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"        envDefault:":3000"`
	DistDir         string        `env:"DIST_DIR"         envDefault:"dist"`
	BasePath        string        `env:"BASE_PATH"        envDefault:"/"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Backend API.
	BackendURL           string        `env:"BACKEND_URL"`
	BackendTimeout       time.Duration `env:"BACKEND_TIMEOUT"        envDefault:"10s"`
	DestinationCacheSize int           `env:"DESTINATION_CACHE_SIZE" envDefault:"256"`

	// Local session storage.
	SessionDB string `env:"SESSION_DB" envDefault:"session.db"`

	// Allergy warnings. Zero picks a random seed per process.
	WarningSeed int64 `env:"WARNING_SEED" envDefault:"0"`

	// Activity sink.
	ActivitySink       string   `env:"ACTIVITY_SINK"        envDefault:"none"`
	KafkaBrokers       []string `env:"KAFKA_BROKERS"        envDefault:"localhost:9092" envSeparator:","`
	KafkaActivityTopic string   `env:"KAFKA_ACTIVITY_TOPIC" envDefault:"planner-activity"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.BasePath = normalizeBasePath(cfg.BasePath)
	if strings.TrimSpace(cfg.BackendURL) == "" {
		cfg.BackendURL = DefaultBackendURL
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.ActivitySink = strings.ToLower(strings.TrimSpace(cfg.ActivitySink))
	cfg.KafkaBrokers = trimAll(cfg.KafkaBrokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.BackendTimeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}
	if c.DestinationCacheSize <= 0 {
		return errors.New("DESTINATION_CACHE_SIZE must be positive")
	}
	if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL %q is not an absolute URL", c.BackendURL)
	}
	if strings.TrimSpace(c.DistDir) == "" {
		return errors.New("DIST_DIR is required")
	}

	switch c.ActivitySink {
	case ActivitySinkNone, ActivitySinkBackend:
	case ActivitySinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when ACTIVITY_SINK is kafka")
		}
		if c.KafkaActivityTopic == "" {
			return errors.New("KAFKA_ACTIVITY_TOPIC is required when ACTIVITY_SINK is kafka")
		}
	default:
		return fmt.Errorf("ACTIVITY_SINK %q must be one of none, backend, kafka", c.ActivitySink)
	}
	return nil
}

// normalizeBasePath returns p with exactly one leading and one trailing slash.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
