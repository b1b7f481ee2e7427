// Package config loads server settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type OptimizerConfig struct {
	Workers   int `yaml:"workers"`
	MaxPasses int `yaml:"maxPasses"`
	TimeoutMs int `yaml:"timeoutMs"`
}

type Config struct {
	Addr          string   `yaml:"addr"`
	DatabaseURL   string   `yaml:"databaseUrl"`
	RedisURL      string   `yaml:"redisUrl"`
	SensorAPIKeys []string `yaml:"sensorApiKeys"`
	HistoryLimit  int      `yaml:"historyLimit"`
	RateRPS       int      `yaml:"rateRps"`
	RateBurst     int      `yaml:"rateBurst"`

	Optimizer OptimizerConfig `yaml:"optimizer"`
}

func defaults() Config {
	return Config{
		Addr:         ":8080",
		HistoryLimit: 100,
		RateRPS:      50,
		RateBurst:    100,
		Optimizer: OptimizerConfig{
			Workers:   4,
			MaxPasses: 0, // 0 means one pass per stop
			TimeoutMs: 2000,
		},
	}
}

// Load reads path (if it exists) over the defaults, then applies env
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, err
			}
		} else if !os.IsNotExist(err) {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("SENSOR_API_KEYS"); v != "" {
		keys := []string{}
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		cfg.SensorAPIKeys = keys
	}
	if n, ok := envInt("HISTORY_LIMIT"); ok {
		cfg.HistoryLimit = n
	}
	if n, ok := envInt("RATE_RPS"); ok {
		cfg.RateRPS = n
	}
	if n, ok := envInt("RATE_BURST"); ok {
		cfg.RateBurst = n
	}
	if n, ok := envInt("OPT_WORKERS"); ok {
		cfg.Optimizer.Workers = n
	}
	if n, ok := envInt("OPT_MAX_PASSES"); ok {
		cfg.Optimizer.MaxPasses = n
	}
	if n, ok := envInt("OPT_TIMEOUT_MS"); ok {
		cfg.Optimizer.TimeoutMs = n
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
