// Package config loads editor persistence settings through viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// LibraryConfig holds tileset library storage settings.
type LibraryConfig struct {
	Backend  string `json:"backend" mapstructure:"backend"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	// SqlitePath is the local fallback database file.
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// Load reads configuration from a JSON file in configDir and sets
// default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./hexedlogs")

	viper.SetDefault("persist.danglingPolicy", "drop")
	viper.SetDefault("persist.importConflictPolicy", "reject")

	viper.SetDefault("library.backend", "memory")
	viper.SetDefault("library.host", "localhost")
	viper.SetDefault("library.port", "5432")
	viper.SetDefault("library.username", "postgres")
	viper.SetDefault("library.password", "postgres")
	viper.SetDefault("library.database", "hexed")
	viper.SetDefault("library.sqlitePath", "./hexed_library.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "hexed-metrics")
	viper.SetDefault("influx.bucket", "editor")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("hexed.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	// Defaults alone are a valid configuration; only a present but
	// unreadable file is an error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Library returns the tileset library settings.
func Library() LibraryConfig {
	var cfg LibraryConfig
	if err := viper.UnmarshalKey("library", &cfg); err != nil {
		return LibraryConfig{Backend: "memory"}
	}
	return cfg
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
