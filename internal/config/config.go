// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env values.
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string

	// Addr is the HTTP listen address of the serve mode.
	Addr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("WIKITOOLS_DB", "wikipedia_tools.db")
	v.SetDefault("WIKITOOLS_ADDR", ":8090")
	v.SetDefault("WIKITOOLS_LOG_LEVEL", "info")

	return &Config{
		DBPath:   v.GetString("WIKITOOLS_DB"),
		Addr:     v.GetString("WIKITOOLS_ADDR"),
		LogLevel: v.GetString("WIKITOOLS_LOG_LEVEL"),
	}
}

func newViper() *viper.Viper {
	// Load .env when present; a missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return v
}
