package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Environment variable overrides. Secrets are expected to come from the
// environment in deployment; the YAML file covers everything else.
const (
	EnvTelegramToken       = "TELEGRAM_TOKEN"
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvSpotifyRedirectURI  = "SPOTIFY_REDIRECT_URI"
	EnvDownloadDir         = "DOWNLOAD_DIR"
)

// Default values
const (
	DefaultConfigPath          = "config.yaml"
	DefaultDownloadDir         = "downloads"
	DefaultMaxParallel         = 4
	DefaultHandshakeTTLMinutes = 10
)

// SpotifyConfig holds the Spotify application credentials
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// Config is the full application configuration
type Config struct {
	TelegramToken       string        `yaml:"telegram_token"`
	Spotify             SpotifyConfig `yaml:"spotify"`
	DownloadDir         string        `yaml:"download_dir"`
	MaxParallel         int           `yaml:"max_parallel"`
	HandshakeTTLMinutes int           `yaml:"handshake_ttl_minutes"`
}

// Load reads the configuration file, applies environment overrides and
// defaults, and validates required secrets. A missing file is not an error;
// everything can come from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables when set
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTelegramToken); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv(EnvSpotifyClientID); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv(EnvSpotifyClientSecret); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv(EnvSpotifyRedirectURI); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := os.Getenv(EnvDownloadDir); v != "" {
		c.DownloadDir = v
	}
}

// applyDefaults fills unset values
func (c *Config) applyDefaults() {
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.MaxParallel < 1 {
		c.MaxParallel = DefaultMaxParallel
	}
	if c.HandshakeTTLMinutes < 1 {
		c.HandshakeTTLMinutes = DefaultHandshakeTTLMinutes
	}
}

// Validate checks that required secrets are present
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram_token is not set (config file or %s)", EnvTelegramToken)
	}
	if c.Spotify.ClientID == "" {
		return fmt.Errorf("spotify client_id is not set (config file or %s)", EnvSpotifyClientID)
	}
	if c.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify client_secret is not set (config file or %s)", EnvSpotifyClientSecret)
	}
	return nil
}

// HandshakeTTL returns the handshake expiry as a duration
func (c *Config) HandshakeTTL() time.Duration {
	return time.Duration(c.HandshakeTTLMinutes) * time.Minute
}
