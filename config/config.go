package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pantryshop/storefront/constants"
)

type Config struct {
	MongoURL    string        `json:"mongo_url" env:"MONGO_URL"`
	DBName      string        `json:"db_name" env:"DB_NAME"`
	CORSOrigins []string      `json:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	HTTP        HTTPConfig    `json:"http"`
	Log         LogConfig     `json:"log"`
	Event       EventConfig   `json:"event"`
	Tracing     TracingConfig `json:"tracing"`
}

type HTTPConfig struct {
	Host string `json:"host" env:"HOST"`
	Port int    `json:"port" env:"PORT"`
}

type LogConfig struct {
	Level string `json:"level" env:"LOG_LEVEL"`
}

type EventConfig struct {
	Driver string `json:"driver" env:"EVENT_DRIVER"`
	URL    string `json:"url" env:"EVENT_URL"`
}

type TracingConfig struct {
	Exporter    string `json:"exporter" env:"OTEL_EXPORTER"`
	Endpoint    string `json:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `json:"service_name" env:"OTEL_SERVICE_NAME"`
}

// MissingError reports required settings that were not provided.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

// IsConfigError reports whether err, or anything it wraps, is a *MissingError.
func IsConfigError(err error) bool {
	var missing *MissingError
	return errors.As(err, &missing)
}

// LoadConfig reads a JSON config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv overlays environment variables on base. Unset variables leave the
// corresponding field untouched.
func FromEnv(base *Config) (*Config, error) {
	if base == nil {
		base = &Config{}
	}
	if err := env.Parse(base); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return base, nil
}

// Load builds the runtime configuration from the optional config file at
// path, the environment and defaults, then validates it.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config %q: %w", path, err)
		}
		cfg = &Config{}
	}
	cfg, err = FromEnv(cfg)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued optional settings. Log.Level stays empty
// unless set so the process-wide level (--debug, STOREFRONT_DEBUG) wins.
func (c *Config) ApplyDefaults() {
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{constants.DefaultCORSOrigin}
	}
	if c.HTTP.Host == "" {
		c.HTTP.Host = constants.DefaultHost
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = constants.DefaultPort
	}
	if c.Event.Driver == "" {
		c.Event.Driver = constants.EventDriverMemory
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.DefaultServiceName
	}
}

// Validate checks that the database settings are present.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.MongoURL) == "" {
		missing = append(missing, constants.EnvMongoURL)
	}
	if strings.TrimSpace(c.DBName) == "" {
		missing = append(missing, constants.EnvDBName)
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
