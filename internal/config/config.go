package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vishwaskamath/sankalp-cli/internal/constants"
)

// Config is the process-level client configuration, assembled from the
// environment (with optional .env file) and built-in defaults.
type Config struct {
	Endpoint  string
	Timezone  string
	Debug     bool
	StorePath string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Endpoint:  getEnv("SANKALP_ENDPOINT", constants.DefaultEndpoint),
		Timezone:  getEnv("SANKALP_TIMEZONE", "Local"),
		Debug:     os.Getenv("SANKALP_DEBUG") != "",
		StorePath: expandHome(getEnv("SANKALP_STORE", constants.DefaultStorePath)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("SANKALP_ENDPOINT must be an absolute URL")
	}
	if c.StorePath == "" {
		return errors.New("SANKALP_STORE cannot be empty")
	}
	return nil
}

// ConfigDir returns the directory holding the local store and log files.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.StorePath)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
