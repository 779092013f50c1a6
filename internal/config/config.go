package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatasetPath     string
	DatasetURL      string
	FetchMaxElapsed time.Duration
	WarmTimeout     time.Duration
	WarmWorkers     int
	CacheSize       int
}

// Load reads .env files (when present) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...) // missing .env is fine
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		DatasetPath: envOr("DATASET_PATH", "movement-range.txt"),
		DatasetURL:  os.Getenv("DATASET_URL"),
	}

	var err error
	if cfg.FetchMaxElapsed, err = durationEnv("FETCH_MAX_ELAPSED", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.WarmTimeout, err = durationEnv("WARM_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.WarmWorkers, err = intEnv("WARM_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = intEnv("CACHE_SIZE", 256); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative", k)
	}
	return n, nil
}
