package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	LogMode     string
	Workers     int
	PostgresDSN string
}

type configFile struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Engine struct {
		Workers int `yaml:"workers"`
	} `yaml:"engine"`
	Sink struct {
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"sink"`
}

// Load applies defaults, then the YAML file at path (a missing file is not an
// error), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:    "8080",
		LogMode: "development",
		Workers: 4,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			var f configFile
			if err := yaml.Unmarshal(raw, &f); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
			if f.Server.Port != "" {
				cfg.Port = f.Server.Port
			}
			if f.Log.Mode != "" {
				cfg.LogMode = f.Log.Mode
			}
			if f.Engine.Workers > 0 {
				cfg.Workers = f.Engine.Workers
			}
			cfg.PostgresDSN = f.Sink.PostgresDSN
		}
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.LogMode = v
	}
	if v := strings.TrimSpace(os.Getenv("FEATURE_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid FEATURE_WORKERS %q", v)
		}
		cfg.Workers = n
	}
	if v := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}

	return cfg, nil
}
