// Package config loads runtime configuration from an optional YAML file
// and FLIGHTDATA_* environment variables, with validated defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"flightdata/internal/ingest"
	"flightdata/internal/timeutil"
)

// Config holds all settings for a run.
type Config struct {
	DatasetDir    string
	ResultsDir    string
	ReferenceDate string
	Timing        bool
	Log           LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from config.yaml (working directory or
// /etc/flightdata, or the file named by FLIGHTDATA_CONFIG_PATH) and the
// environment. A missing config file is fine; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("dataset_dir", "dataset")
	v.SetDefault("results_dir", "resultados")
	v.SetDefault("reference_date", ingest.DefaultReferenceDate)
	v.SetDefault("timing", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/flightdata")
	v.AddConfigPath(".")

	if path := os.Getenv("FLIGHTDATA_CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("FLIGHTDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		DatasetDir:    v.GetString("dataset_dir"),
		ResultsDir:    v.GetString("results_dir"),
		ReferenceDate: v.GetString("reference_date"),
		Timing:        v.GetBool("timing"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatasetDir == "" {
		return fmt.Errorf("dataset_dir is required")
	}
	if cfg.ResultsDir == "" {
		return fmt.Errorf("results_dir is required")
	}
	if _, err := timeutil.ParseDate(cfg.ReferenceDate); err != nil {
		return fmt.Errorf("reference_date %q: %w", cfg.ReferenceDate, err)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}
	return nil
}
