package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Timer     TimerConfig     `yaml:"timer"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the persistence driver. "sqlite" (default) uses a
// local file at Path; "postgres" connects with the DSN fields.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	// APIKey guards mutating endpoints. Empty disables the check, for
	// deployments where tsnet already controls access.
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// TimerConfig sets the tick granularity for the internal session clocks.
// The workout timer drives a sub-second display; the battle clock only
// needs whole seconds. Internal=false disables the clocks entirely and
// leaves tick delivery to the presentation layer.
type TimerConfig struct {
	Internal      *bool `yaml:"internal"`
	WorkoutTickMs int   `yaml:"workout_tick_ms"`
	BattleTickMs  int   `yaml:"battle_tick_ms"`
}

// InternalClocks reports whether the server should run its own session
// clocks. Defaults to true.
func (t TimerConfig) InternalClocks() bool {
	return t.Internal == nil || *t.Internal
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

// URL returns the driver-prefixed database URL used by the migrator.
func (d DatabaseConfig) URL() string {
	if d.Driver == "postgres" {
		return d.DSN()
	}
	return "sqlite://" + d.Path
}

// MigrationsDir returns the per-driver migrations directory under root.
func (d DatabaseConfig) MigrationsDir(root string) string {
	if d.Driver == "postgres" {
		return root + "/postgres"
	}
	return root + "/sqlite"
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix NEPTUNE_ and underscore-separated
// paths:
//
//	NEPTUNE_SERVER_HOST, NEPTUNE_SERVER_PORT,
//	NEPTUNE_DB_DRIVER, NEPTUNE_DB_PATH, NEPTUNE_DB_HOST, NEPTUNE_DB_PORT,
//	NEPTUNE_DB_NAME, NEPTUNE_DB_USER, NEPTUNE_DB_PASSWORD, NEPTUNE_DB_SSLMODE,
//	NEPTUNE_AUTH_API_KEY
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
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEPTUNE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("NEPTUNE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NEPTUNE_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("NEPTUNE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("NEPTUNE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("NEPTUNE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("NEPTUNE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("NEPTUNE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("NEPTUNE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("NEPTUNE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("NEPTUNE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "neptune.db"
	}
	if cfg.Timer.WorkoutTickMs == 0 {
		cfg.Timer.WorkoutTickMs = 10
	}
	if cfg.Timer.BattleTickMs == 0 {
		cfg.Timer.BattleTickMs = 1000
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for the postgres driver")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required for the postgres driver")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for the postgres driver")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Timer.WorkoutTickMs < 0 || c.Timer.BattleTickMs < 0 {
		return fmt.Errorf("timer tick intervals must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
