// Package config loads client configuration from the environment.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config collects everything the client needs to reach the backend.
// Flags may override individual fields after loading.
type Config struct {
	// APIURL is the backend base URL, including the /api prefix.
	APIURL string `env:"AVTOHUB_API_URL, default=http://localhost:5000/api"`

	// Timeout bounds every request end to end; owned by the HTTP transport.
	Timeout time.Duration `env:"AVTOHUB_TIMEOUT, default=10s"`

	// ConfigDir overrides where the credential file lives (empty = user config dir).
	ConfigDir string `env:"AVTOHUB_CONFIG_DIR"`

	// Verbose switches the development logger on.
	Verbose bool `env:"AVTOHUB_VERBOSE, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
