// Package config loads engine configuration from an optional YAML file
// merged with environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full engine configuration.
type Config struct {
	RPCEndpoint string `mapstructure:"rpc_endpoint"`
	WSEndpoint  string `mapstructure:"ws_endpoint"`

	JupiterBaseURL string   `mapstructure:"jupiter_base_url"`
	RelayEndpoints []string `mapstructure:"relay_endpoints"`

	// EncryptionPassphrase keys the wallet secret envelopes. Rotating it
	// invalidates every stored wallet.
	EncryptionPassphrase string `mapstructure:"encryption_passphrase"`

	// Storage selects the backends. With UseMemory set the DSNs are
	// ignored and everything lives in process memory.
	UseMemory     bool   `mapstructure:"use_memory"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`

	MetricsAddr string `mapstructure:"metrics_addr"`

	ConfirmPollInterval time.Duration `mapstructure:"confirm_poll_interval"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig controls logging output and rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	JSONFormat bool   `mapstructure:"json_format"`
	File       string `mapstructure:"file"` // empty means stdout only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads the config file at path (optional, "" skips it), applies
// SWAP_ENGINE_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("jupiter_base_url", "https://quote-api.jup.ag/v6")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("confirm_poll_interval", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)

	v.SetEnvPrefix("SWAP_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc_endpoint is required")
	}
	if c.EncryptionPassphrase == "" {
		return fmt.Errorf("encryption_passphrase is required")
	}
	if !c.UseMemory {
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required (or set use_memory)")
		}
	}
	return nil
}
