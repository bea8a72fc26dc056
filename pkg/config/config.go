// Package config loads the admin console configuration from YAML with
// environment overrides, and validates the result against a JSON schema
// before anything dials the backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/app-aegis/aegis-admin/components/console"
)

// Config is the full runtime configuration of the console.
type Config struct {
	API    APIConfig    `json:"api" yaml:"api"`
	Server ServerConfig `json:"server" yaml:"server"`
	UI     UIConfig     `json:"ui" yaml:"ui"`

	// Tables extends the raw table browser beyond the built-in set.
	Tables []console.TableDefinition `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// APIConfig points the console at its REST backend.
type APIConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Token   string        `json:"token,omitempty" yaml:"token,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// UIConfig tunes rendering defaults.
type UIConfig struct {
	PageSize      int           `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	ResolverLimit int           `json:"resolver_limit,omitempty" yaml:"resolver_limit,omitempty"`
	ChartCacheTTL time.Duration `json:"chart_cache_ttl,omitempty" yaml:"chart_cache_ttl,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		API:    APIConfig{BaseURL: "http://localhost:8080", Timeout: 10 * time.Second},
		Server: ServerConfig{Addr: ":3000"},
		UI:     UIConfig{PageSize: 10, ResolverLimit: 512, ChartCacheTTL: 5 * time.Minute},
	}
}

// Load reads the YAML file at path (optional), applies environment
// overrides, validates and returns the merged configuration. A .env file in
// the working directory is folded into the environment first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv folds AEGIS_* environment variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("AEGIS_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("AEGIS_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("AEGIS_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("AEGIS_PAGE_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.UI.PageSize = size
		}
	}
}

// Registry builds the table registry including the configured extras.
func (c Config) Registry() (*console.TableRegistry, error) {
	reg := console.NewTableRegistry()
	for _, def := range c.Tables {
		if err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("config: table %q: %w", def.Name, err)
		}
	}
	return reg, nil
}
