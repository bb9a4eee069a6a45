package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: BATCH_CONCURRENCY must be 1-100")
	errInvalidFetchTimeout   = errors.New("config: FETCH_TIMEOUT must be a positive duration")
	errInvalidMaxBatchURLs   = errors.New("config: MAX_BATCH_URLS must not be negative")
	errInvalidLogFormat      = errors.New("config: LOG_FORMAT must be json or text")
)

// Config holds all application configuration. Values come from an optional
// YAML file named by CONFIG_FILE, overridden by environment variables.
type Config struct {
	Port                 string        `yaml:"port"`
	LogLevel             string        `yaml:"log_level"`
	LogFormat            string        `yaml:"log_format"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
	BatchConcurrency     int           `yaml:"batch_concurrency"`
	MaxBatchURLs         int           `yaml:"max_batch_urls"`
	ClarityDataPath      string        `yaml:"clarity_data_path"`
	CORSAllowedOrigins   []string      `yaml:"cors_allowed_origins"`
	AllowPrivateNetworks bool          `yaml:"allow_private_networks"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:               "8080",
		LogLevel:           "ERROR",
		LogFormat:          "json",
		FetchTimeout:       120 * time.Second,
		BatchConcurrency:   10,
		ClarityDataPath:    "clarity.json",
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load reads configuration from CONFIG_FILE (if set) and environment
// variables with sensible defaults.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.FetchTimeout = getEnvAsDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.BatchConcurrency = getEnvAsInt("BATCH_CONCURRENCY", cfg.BatchConcurrency)
	cfg.MaxBatchURLs = getEnvAsInt("MAX_BATCH_URLS", cfg.MaxBatchURLs)
	cfg.ClarityDataPath = getEnv("CLARITY_DATA_PATH", cfg.ClarityDataPath)
	cfg.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.AllowPrivateNetworks = getEnvAsBool("ALLOW_PRIVATE_NETWORKS", cfg.AllowPrivateNetworks)

	return cfg, cfg.validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided config path
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.BatchConcurrency < 1 || c.BatchConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.BatchConcurrency)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidFetchTimeout, c.FetchTimeout)
	}

	if c.MaxBatchURLs < 0 {
		return fmt.Errorf("%w: got %d", errInvalidMaxBatchURLs, c.MaxBatchURLs)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: got %q", errInvalidLogFormat, c.LogFormat)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go durations ("90s") and bare seconds ("120").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsList(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
