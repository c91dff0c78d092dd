package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Quiz struct {
		DefaultCourse string `yaml:"defaultCourse" env:"QUIZ_DEFAULT_COURSE"`
		CoursesFile   string `yaml:"coursesFile" env:"QUIZ_COURSES_FILE"`
		SettleDelay   string `yaml:"settleDelay" env:"QUIZ_SETTLE_DELAY"`
		TickInterval  string `yaml:"tickInterval" env:"QUIZ_TICK_INTERVAL"`
		CacheTTL      string `yaml:"cacheTTL" env:"QUIZ_CACHE_TTL"`
		ScoresKey     string `yaml:"scoresKey" env:"QUIZ_SCORES_KEY"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
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
