package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      string  `yaml:"port"`
		ImagesDir string  `yaml:"images_dir"`
		RateLimit float64 `yaml:"rate_limit"` // POST requests per second per client IP
		RateBurst int     `yaml:"rate_burst"`
		LogLevel  string  `yaml:"log_level"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL   string `yaml:"ttl"`
		Route string `yaml:"route"`
	} `yaml:"quiz"`
	Leaderboard struct {
		Store  string `yaml:"store"` // memory, sheets, postgres or xlsx
		Sheets struct {
			SpreadsheetID   string `yaml:"spreadsheet_id"`
			Sheet           string `yaml:"sheet"`
			CredentialsFile string `yaml:"credentials_file"`
			URL             string `yaml:"url"` // public link shown to players
		} `yaml:"sheets"`
		XLSX struct {
			Path string `yaml:"path"`
		} `yaml:"xlsx"`
	} `yaml:"leaderboard"`
}

// Load reads YAML config from path. A missing file yields the zero config so the
// service can start on defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
