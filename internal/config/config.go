// Package config loads tool configuration from files and the
// environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the jsontree tool configuration
type Config struct {
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

// RenderConfig holds renderer defaults
type RenderConfig struct {
	Pretty       bool   `mapstructure:"pretty"`
	IndentSpaces int    `mapstructure:"indent_spaces"`
	NewLine      string `mapstructure:"newline"`
}

// LogConfig holds logger defaults
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// Load reads the configuration using Viper. A missing config file is
// not an error; defaults and JSONTREE_* environment variables apply.
func Load() (*Config, error) {
	viper.SetConfigName("jsontree-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.jsontree")
	viper.AddConfigPath("/etc/jsontree")

	viper.SetDefault("render.pretty", false)
	viper.SetDefault("render.indent_spaces", 2)
	viper.SetDefault("render.newline", "\n")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", true)
	viper.SetDefault("log.with_caller", false)

	viper.SetEnvPrefix("JSONTREE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
