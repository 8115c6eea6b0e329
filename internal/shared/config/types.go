package config

import "fmt"

// StorageConfig selects and parameterizes the active ticket storage backend.
// Backend is one of "cached_sqlite" and "mysql".
type StorageConfig struct {
	Backend string       `mapstructure:"backend"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	MySQL   MySQLConfig  `mapstructure:"mysql"`
}

// SQLiteConfig configures the cache-fronted embedded engine.
type SQLiteConfig struct {
	Path            string `mapstructure:"path"`
	WriteQueueDepth int    `mapstructure:"write_queue_depth"`
}

// MySQLConfig configures the networked engine.
type MySQLConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *MySQLConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}
