// Package config loads the application configuration from a YAML file with
// environment overrides for deployment settings.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects the PostgreSQL store when Host is set. With an empty
// host the server runs against the in-memory store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

// RabbitMQConfig enables kitchen event publishing when Host is set.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

func (r RabbitMQConfig) Enabled() bool { return r.Host != "" }

type AuthConfig struct {
	Secret        string `yaml:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	// Optional bootstrap admin account, created at startup if absent.
	AdminEmail    string `yaml:"admin_email"`
	AdminPhone    string `yaml:"admin_phone"`
	AdminPassword string `yaml:"admin_password"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Default returns a configuration good enough for local runs: in-memory
// store, no message queue, port 3000.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000},
		Auth:   AuthConfig{TokenTTLHours: 24},
	}
}

// FromEnv returns the defaults with environment overrides applied, for runs
// without a config file.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("RABBITMQ_HOST"); v != "" {
		c.RabbitMQ.Host = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.Enabled() && c.Database.Database == "" {
		return fmt.Errorf("database.database is required when database.host is set")
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	return nil
}

// FindConfig probes the usual locations for a config file.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
