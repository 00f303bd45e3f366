package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// Configuration is the root of the janitord configuration tree.
type Configuration struct {
	Pool      Pool   `mapstructure:"pool"`
	Ledger    Ledger `mapstructure:"ledger"`
	Server    Server `mapstructure:"server"`
	LogLevel  string `mapstructure:"log_level" default:"info"`
	LogFormat string `mapstructure:"log_format" default:"console"`
}

// Pool tunes the background processing pool.
type Pool struct {
	Workers       int           `mapstructure:"workers" default:"4"`
	SleepInterval time.Duration `mapstructure:"sleep_interval" default:"10s"`
	SleepJitter   time.Duration `mapstructure:"sleep_jitter" default:"1s"`
	ScanLimit     int           `mapstructure:"scan_limit" default:"100"`
}

// Ledger configures the file-size ledger.
type Ledger struct {
	DataFolder string `mapstructure:"data_folder" default:"."`
	BatchSize  int    `mapstructure:"batch_size" default:"64"`
}

// DatabasePath is the DuckDB file holding the ledger tables.
func (l Ledger) DatabasePath() string {
	return filepath.Join(l.DataFolder, "janitor.duckdb")
}

// Server configures the local status API.
type Server struct {
	Mode     string `mapstructure:"mode" default:"dev"`
	HTTPPort int    `mapstructure:"http_port" default:"7609"`
}

// New returns a Configuration populated with defaults.
func New() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}
	return cfg, nil
}

// Load builds the configuration from defaults, an optional YAML file, and
// JANITOR_* environment variables, in increasing precedence.
func Load(path string) (*Configuration, error) {
	cfg, err := New()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("JANITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Seeding the defaults makes every key known to viper, so environment
	// overrides apply even without a configuration file.
	v.SetDefault("pool.workers", cfg.Pool.Workers)
	v.SetDefault("pool.sleep_interval", cfg.Pool.SleepInterval)
	v.SetDefault("pool.sleep_jitter", cfg.Pool.SleepJitter)
	v.SetDefault("pool.scan_limit", cfg.Pool.ScanLimit)
	v.SetDefault("ledger.data_folder", cfg.Ledger.DataFolder)
	v.SetDefault("ledger.batch_size", cfg.Ledger.BatchSize)
	v.SetDefault("server.mode", cfg.Server.Mode)
	v.SetDefault("server.http_port", cfg.Server.HTTPPort)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
