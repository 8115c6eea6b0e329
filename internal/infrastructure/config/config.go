package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "tickethub/internal/shared/config"
)

type Config struct {
	Storage sharedConfig.StorageConfig `mapstructure:"storage"`
	Logger  sharedConfig.LoggerConfig  `mapstructure:"logger"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("TICKETHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and environment cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Storage defaults
	viper.SetDefault("storage.backend", "cached_sqlite")
	viper.SetDefault("storage.sqlite.path", "./data/tickethub.db")
	viper.SetDefault("storage.sqlite.write_queue_depth", 1000)
	viper.SetDefault("storage.mysql.host", "localhost")
	viper.SetDefault("storage.mysql.port", 3306)
	viper.SetDefault("storage.mysql.username", "root")
	viper.SetDefault("storage.mysql.password", "password")
	viper.SetDefault("storage.mysql.database", "tickethub")
	viper.SetDefault("storage.mysql.max_idle_conns", 10)
	viper.SetDefault("storage.mysql.max_open_conns", 100)
	viper.SetDefault("storage.mysql.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")
}
