package config

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (FARM_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string        `default:"0.0.0.0:4000" usage:"API server listen address"`
	DatabaseURL string        `usage:"PostgreSQL connection URL (FARM_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWTSecret   string        `usage:"Secret for signing auth tokens (FARM_JWT_SECRET)" flag:"jwt-secret"`
	TokenTTL    time.Duration `default:"24h" usage:"Auth token lifetime" flag:"token-ttl"`
	CORS        CORSConfig
	Shutdown    ShutdownConfig
}

// CORSConfig controls Cross-Origin Resource Sharing headers for the SPA.
type CORSConfig struct {
	Origins          []string `default:"http://localhost:5173,http://localhost:5174,http://localhost:3000" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// ShutdownConfig controls graceful shutdown timing.
type ShutdownConfig struct {
	Timeout time.Duration `default:"10s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// Load reads configuration from environment variables and YAML config files,
// then applies platform-specific defaults.
func Load() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FARM",
		Files:     []string{"config.yaml", "/etc/farmfresh/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set FARM_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set FARM_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the FARM_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:4000" {
		c.Addr = "0.0.0.0:" + port
	}
	// aconfig keeps comma-joined env lists as a single element.
	if len(c.CORS.Origins) == 1 && strings.Contains(c.CORS.Origins[0], ",") {
		c.CORS.Origins = strings.Split(c.CORS.Origins[0], ",")
	}
}
