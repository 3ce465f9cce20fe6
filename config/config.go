package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	WebPort              int           `mapstructure:"WEB_PORT"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
	BackendURL           string        `mapstructure:"BACKEND_URL"`
	BackendTimeout       time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	MaxUploadBytes       int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
	RenderCacheSize      int           `mapstructure:"RENDER_CACHE_SIZE"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("WEB_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	// 0 means wait indefinitely for the backend
	viper.SetDefault("BACKEND_TIMEOUT", 0)
	viper.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)
	viper.SetDefault("SESSION_TTL", 24)
	viper.SetDefault("SESSION_SWEEP_INTERVAL", 10)
	viper.SetDefault("RENDER_CACHE_SIZE", 256)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	// Convert seconds/hours/minutes to proper time.Duration
	config.BackendTimeout = config.BackendTimeout * time.Second
	config.SessionTTL = config.SessionTTL * time.Hour
	config.SessionSweepInterval = config.SessionSweepInterval * time.Minute

	return &config
}
