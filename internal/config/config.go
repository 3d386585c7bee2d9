package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full crewboard configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Server   ServerConfig   `mapstructure:"server"`
	Suggest  SuggestConfig  `mapstructure:"suggest"`
	Points   PointsConfig   `mapstructure:"points"`
}

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	Path   string `mapstructure:"path"`   // sqlite file
	DSN    string `mapstructure:"dsn"`    // postgres connection string
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// NotifyConfig controls assignment e-mails
type NotifyConfig struct {
	Mode     string        `mapstructure:"mode"` // log or http
	Endpoint string        `mapstructure:"endpoint"`
	Token    string        `mapstructure:"token"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type SuggestConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type PointsConfig struct {
	Default int `mapstructure:"default"`
}

// envPrefix is prepended to every environment override, e.g. CREWBOARD_LOG_LEVEL
const envPrefix = "CREWBOARD"

// Load reads .env, then layers defaults, the global config, the project
// config (or explicitPath when set) and CREWBOARD_* environment variables.
func Load(explicitPath string) (*Config, error) {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	paths := []string{GlobalConfigPath(), ProjectConfigPath()}
	if explicitPath != "" {
		paths = []string{explicitPath}
	}
	for _, path := range paths {
		if err := mergeFile(v, path, explicitPath != ""); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile merges a YAML file into v. Missing files are skipped unless required.
func mergeFile(v *viper.Viper, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("notify.mode", d.Notify.Mode)
	v.SetDefault("notify.endpoint", d.Notify.Endpoint)
	v.SetDefault("notify.token", d.Notify.Token)
	v.SetDefault("notify.from", d.Notify.From)
	v.SetDefault("notify.timeout", d.Notify.Timeout)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("suggest.delay", d.Suggest.Delay)
	v.SetDefault("points.default", d.Points.Default)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(GlobalDir(), "crewboard.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Notify: NotifyConfig{
			Mode:    "log",
			From:    "crewboard@localhost",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Suggest: SuggestConfig{
			Delay: 1500 * time.Millisecond,
		},
		Points: PointsConfig{
			Default: 25,
		},
	}
}

// Validate checks the values that would otherwise fail deep inside a component
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q (use sqlite or postgres)", c.Database.Driver)
	}

	switch c.Notify.Mode {
	case "log":
	case "http":
		if c.Notify.Endpoint == "" {
			return fmt.Errorf("notify.endpoint is required when notify.mode is http")
		}
	default:
		return fmt.Errorf("unsupported notify.mode %q (use log or http)", c.Notify.Mode)
	}

	if c.Points.Default < 5 || c.Points.Default > 100 {
		return fmt.Errorf("points.default must be between 5 and 100, got %d", c.Points.Default)
	}
	if c.Suggest.Delay < 0 {
		return fmt.Errorf("suggest.delay must not be negative")
	}
	return nil
}

// GlobalDir returns ~/.crewboard, falling back to the working directory
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crewboard"
	}
	return filepath.Join(home, ".crewboard")
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".crewboard", "config.yaml")
}
