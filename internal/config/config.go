package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvServiceKey       = "NARABID_SERVICE_KEY"
	EnvServiceKeyLegacy = "DATA_GO_KR_SERVICE_KEY"
	EnvAddr             = "NARABID_ADDR"
)

// ServerConfig holds configuration for the narabid server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // Listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // Log level: debug, info, warn, error
	LogFormat string `yaml:"log_format"` // Log format: text, json
	DBPath    string `yaml:"db_path"`    // Fetch log database; empty disables the log, ":memory:" for testing

	ServiceKey string        `yaml:"service_key"` // Upstream access credential
	BaseURL    string        `yaml:"base_url"`    // Upstream API root
	Timeout    time.Duration `yaml:"timeout"`     // Per upstream call

	DefaultRows     int `yaml:"default_rows"`      // numOfRows when the caller gives none
	DefaultMaxPages int `yaml:"default_max_pages"` // maxPages when the caller gives none
	ResultCap       int `yaml:"result_cap"`        // Max items returned per response

	CacheMaxAge   int    `yaml:"cache_max_age"`   // Seconds, browser cache
	CacheSMaxAge  int    `yaml:"cache_s_max_age"` // Seconds, shared cache
	AllowedOrigin string `yaml:"allowed_origin"`  // Access-Control-Allow-Origin
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		BaseURL:         "https://apis.data.go.kr/1230000",
		Timeout:         12 * time.Second,
		DefaultRows:     100,
		DefaultMaxPages: 3,
		ResultCap:       50,
		CacheMaxAge:     60,
		CacheSMaxAge:    300,
		AllowedOrigin:   "*",
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any)
// and then the environment.
func Load(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. NARABID_SERVICE_KEY
// wins over DATA_GO_KR_SERVICE_KEY.
func (c *ServerConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvServiceKeyLegacy); v != "" {
		c.ServiceKey = v
	}
	if v := getenv(EnvServiceKey); v != "" {
		c.ServiceKey = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Addr = v
	}
}

// CacheControl returns the header value sent with successful responses.
func (c ServerConfig) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d", c.CacheMaxAge, c.CacheSMaxAge)
}
