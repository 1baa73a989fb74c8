// Package config loads the mtmeta tool configuration from mtmeta.yml and
// the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the mtmeta configuration.
type Config struct {
	SchemaDirs []string     `mapstructure:"schema_dirs"`
	Catalog    string       `mapstructure:"catalog"`
	Watch      bool         `mapstructure:"watch"`
	Server     ServerConfig `mapstructure:"server"`
}

// ServerConfig represents the inspection service configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load reads mtmeta.yml (or mtmeta.yaml) from the working directory,
// falling back to defaults, with MTMETA_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("schema_dirs", []string{})
	v.SetDefault("catalog", "filters.db")
	v.SetDefault("watch", false)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8400)

	v.SetConfigName("mtmeta")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("mtmeta")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file - defaults apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	return nil
}
