package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Algogrid AlgogridConfig `yaml:"algogrid"`
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Client   ClientConfig   `yaml:"client"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AlgogridConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ServerConfig struct {
	Address   string          `yaml:"address"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// APIConfig seeds the runtime settings store. The key itself is never read
// from the YAML file; it comes from the OPENALGO_API_KEY environment variable
// or from the set-config operation at runtime.
type APIConfig struct {
	HostURL string `yaml:"host_url"`
	Version string `yaml:"version"`
	Format  string `yaml:"format"`
	Key     string `yaml:"-"`
}

type ClientConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Server: ServerConfig{
			Address: "127.0.0.1:8800",
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 10,
				BurstSize:         20,
			},
		},
		API: APIConfig{
			HostURL: "http://127.0.0.1:5000",
			Version: "v1",
			Format:  "auto",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// The API key only ever comes from the environment
	config.API.Key = strings.TrimSpace(os.Getenv("OPENALGO_API_KEY"))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Algogrid.Name == "" {
		return fmt.Errorf("algogrid.name is required")
	}

	if cfg.Algogrid.Version == "" {
		return fmt.Errorf("algogrid.version is required")
	}

	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	if cfg.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}

	cfg.API.HostURL = strings.TrimRight(strings.TrimSpace(cfg.API.HostURL), "/")
	if cfg.API.HostURL == "" {
		return fmt.Errorf("api.host_url is required")
	}

	switch cfg.API.Format {
	case "auto", "table", "key_value":
	default:
		return fmt.Errorf("api.format must be one of auto, table, key_value")
	}

	return nil
}
