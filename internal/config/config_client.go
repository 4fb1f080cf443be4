package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClientLog configures the rotating client log file.
type ClientLog struct {
	Path       string `mapstructure:"path"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ClientConfig is the configuration of the offline-first CLI client.
// It is loaded with viper from a YAML file, MINT_* environment variables
// and cobra flags bound by the caller.
type ClientConfig struct {
	// ServerURL is the base URL of the sync server.
	ServerURL string `mapstructure:"server_url"`

	// Token is the bearer token sent with every request.
	Token string `mapstructure:"token"`

	// DBPath is the SQLite file holding the local store.
	DBPath string `mapstructure:"db_path"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// SyncInterval is the period of the daemon's sync job.
	SyncInterval time.Duration `mapstructure:"sync_interval"`

	Log ClientLog `mapstructure:"log"`
}

// NewClientViper returns a viper instance with client defaults and
// MINT_ prefixed env bindings (MINT_SERVER_URL, MINT_LOG_LEVEL, ...).
func NewClientViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("db_path", "mint-sync.db")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("sync_interval", time.Minute)
	v.SetDefault("log.path", "mint-sync.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetEnvPrefix("MINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadClientConfig reads configFile (YAML) when given, otherwise looks for
// config.yaml in the working directory and $HOME/.mint-sync. A missing
// default file is not an error.
func LoadClientConfig(v *viper.Viper, configFile string) (*ClientConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.mint-sync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading client config: %w", err)
		}
	}

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding client config: %w", err)
	}

	return cfg, cfg.validate()
}

func (cfg *ClientConfig) validate() error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("%w: server url is required", ErrInvalidClientConfigs)
	}
	if cfg.DBPath == "" || strings.Contains(cfg.DBPath, ":memory:") {
		return fmt.Errorf("%w: a file backed db path is required", ErrInvalidStorageConfigs)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidClientConfigs)
	}
	if cfg.SyncInterval <= 0 {
		return fmt.Errorf("%w: sync interval must be positive", ErrInvalidWorkerConfigs)
	}
	return nil
}
