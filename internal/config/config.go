// Package config loads the service configuration: a base config.toml, an
// optional per-environment overlay, and environment variable overrides,
// finalized with defaults and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/desistd/desist/pkg/database"
	"github.com/desistd/desist/pkg/queue"
	"github.com/desistd/desist/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDesistEnv             = "DESIST_ENV"
	EnvDesistShutdownTimeout = "DESIST_SHUTDOWN_TIMEOUT"
	EnvDesistVersion         = "DESIST_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "DESIST_DB_HOST",
	Port:            "DESIST_DB_PORT",
	Name:            "DESIST_DB_NAME",
	User:            "DESIST_DB_USER",
	Password:        "DESIST_DB_PASSWORD",
	SSLMode:         "DESIST_DB_SSL_MODE",
	MaxOpenConns:    "DESIST_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DESIST_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DESIST_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DESIST_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "DESIST_STORAGE_CONTAINER_NAME",
	ConnectionString: "DESIST_STORAGE_CONNECTION_STRING",
}

var queueEnv = &queue.Env{
	URL:            "DESIST_QUEUE_URL",
	Subject:        "DESIST_QUEUE_SUBJECT",
	ConnectTimeout: "DESIST_QUEUE_CONNECT_TIMEOUT",
	ReconnectWait:  "DESIST_QUEUE_RECONNECT_WAIT",
	MaxReconnects:  "DESIST_QUEUE_MAX_RECONNECTS",
}

// Config is the root configuration for the desist service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	Queue           queue.Config         `toml:"queue"`
	API             APIConfig            `toml:"api"`
	Pipeline        PipelineConfig       `toml:"pipeline"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the DESIST_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDesistEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Queue.Merge(&overlay.Queue)
	c.API.Merge(&overlay.API)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Agent.Merge(&overlay.Agent)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Queue.Finalize(queueEnv); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	// The agent is only required when escalation is enabled.
	if c.Pipeline.Escalation {
		if err := FinalizeAgent(&c.Agent); err != nil {
			return fmt.Errorf("agent: %w", err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDesistShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDesistVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDesistEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
