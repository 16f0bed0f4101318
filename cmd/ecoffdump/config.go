package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the ecoffdump configuration file (~/.config/ecoffdump/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	Strict  *bool `yaml:"strict"`
	Workers *int  `yaml:"workers"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress  string   `yaml:"server_address"`
	MaxUploadBytes *int64   `yaml:"max_upload_bytes"`
	RateLimit      *float64 `yaml:"rate_limit"`
	RateBurst      *int     `yaml:"rate_burst"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ecoffdump", "config.yaml")
}

// LoadConfig reads the config file at path. A missing or unreadable file
// yields a zero Config; a file that is not valid YAML is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyGlobalConfig applies config file defaults to the global flags that
// were not set on the command line.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.Strict != nil && !c.IsSet("strict") {
		strict = *cfg.Strict
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyBatchConfig(c *cli.Command, cfg Config, workers *int) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxUpload *int64, rateLimit *float64, rateBurst *int) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxUploadBytes != nil && !c.IsSet("max-upload") {
		*maxUpload = *cfg.MaxUploadBytes
	}
	if cfg.RateLimit != nil && !c.IsSet("rate") {
		*rateLimit = *cfg.RateLimit
	}
	if cfg.RateBurst != nil && !c.IsSet("burst") {
		*rateBurst = *cfg.RateBurst
	}
}
