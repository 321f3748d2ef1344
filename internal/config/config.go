package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	Migrations string `yaml:"migrations"`
}

// RedisConfig points at the pub/sub broker for live workout updates.
// An empty address disables publishing.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// OutboxConfig locates the local buffer for sessions that failed to save.
type OutboxConfig struct {
	Dir              string `yaml:"dir"`
	DrainIntervalSec int    `yaml:"drain_interval_sec"`
}

// TailscaleConfig optionally exposes the server on a tailnet instead of a
// plain TCP listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	AuthKey  string `yaml:"auth_key"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// MigrationsDir returns the schema migrations directory, defaulting to
// ./migrations next to the binary.
func (d DatabaseConfig) MigrationsDir() string {
	if d.Migrations == "" {
		return "migrations"
	}
	return d.Migrations
}

// TokenTTL returns the configured token lifetime, defaulting to 24h.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// DrainInterval returns the outbox retry interval, defaulting to 30s.
func (o OutboxConfig) DrainInterval() time.Duration {
	if o.DrainIntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.DrainIntervalSec) * time.Second
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix IRONCOACH_ and underscore-separated paths:
//
//	IRONCOACH_SERVER_HOST, IRONCOACH_SERVER_PORT,
//	IRONCOACH_DB_HOST, IRONCOACH_DB_PORT, IRONCOACH_DB_NAME,
//	IRONCOACH_DB_USER, IRONCOACH_DB_PASSWORD, IRONCOACH_DB_SSLMODE,
//	IRONCOACH_REDIS_ADDR, IRONCOACH_REDIS_PASSWORD,
//	IRONCOACH_AUTH_JWT_SECRET, IRONCOACH_OUTBOX_DIR,
//	IRONCOACH_TS_HOSTNAME, IRONCOACH_TS_AUTHKEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IRONCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("IRONCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IRONCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("IRONCOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("IRONCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("IRONCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("IRONCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("IRONCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("IRONCOACH_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("IRONCOACH_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("IRONCOACH_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("IRONCOACH_OUTBOX_DIR"); v != "" {
		cfg.Outbox.Dir = v
	}
	if v := os.Getenv("IRONCOACH_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
		cfg.Tailscale.Enabled = true
	}
	if v := os.Getenv("IRONCOACH_TS_AUTHKEY"); v != "" {
		cfg.Tailscale.AuthKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Outbox.Dir == "" {
		c.Outbox.Dir = "./data"
	}
	return nil
}
