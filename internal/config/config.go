package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite, bolt
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".gitstar")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("storage.backend", "sqlite")
	viper.SetDefault("log.level", "info")

	// Environment variable overrides
	viper.SetEnvPrefix("GITSTAR")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "GITSTAR_DATA_DIR")
	viper.BindEnv("storage.backend", "GITSTAR_BACKEND")
	viper.BindEnv("log.level", "GITSTAR_LOG_LEVEL")

	// Config file lives in the data dir, which a flag or env var may have moved.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(viper.GetString("data_dir"))

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "gitstar.log")
}
