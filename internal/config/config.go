package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrInvalidConfig is returned by Validate when required values are missing.
var ErrInvalidConfig = errors.New("invalid config")

const secretMask = "********"

// Config holds server configuration values.
type Config struct {
	Addr               string         `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout  time.Duration  `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration  `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel           string         `mapstructure:"log_level" yaml:"log_level"`
	LogFormat          string         `mapstructure:"log_format" yaml:"log_format"`
	CORSOrigins        []string       `mapstructure:"cors_origins" yaml:"cors_origins"`
	RateLimitPerMinute int            `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"` // per client IP, zero disables
	LiveKit            LiveKitConfig  `mapstructure:"livekit" yaml:"livekit"`
	Identity           IdentityConfig `mapstructure:"identity" yaml:"identity"`
}

// LiveKitConfig holds the credentials and target room for issued tokens.
type LiveKitConfig struct {
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	APISecret string `mapstructure:"api_secret" yaml:"api_secret"`
	URL       string `mapstructure:"url" yaml:"url"`
	Room      string `mapstructure:"room" yaml:"room"`
}

// IdentityConfig is the participant identity written into every token.
type IdentityConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	DisplayName string `mapstructure:"display_name" yaml:"display_name"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		CORSOrigins:       []string{"http://localhost:3000"},
		LiveKit: LiveKitConfig{
			URL: "ws://localhost:7880",
		},
		Identity: IdentityConfig{
			Name:        "user-web-client",
			DisplayName: "Web User",
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if len(other.CORSOrigins) > 0 {
		c.CORSOrigins = other.CORSOrigins
	}
	if other.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = other.RateLimitPerMinute
	}
	if other.LiveKit.APIKey != "" {
		c.LiveKit.APIKey = other.LiveKit.APIKey
	}
	if other.LiveKit.APISecret != "" {
		c.LiveKit.APISecret = other.LiveKit.APISecret
	}
	if other.LiveKit.URL != "" {
		c.LiveKit.URL = other.LiveKit.URL
	}
	if other.LiveKit.Room != "" {
		c.LiveKit.Room = other.LiveKit.Room
	}
	if other.Identity.Name != "" {
		c.Identity.Name = other.Identity.Name
	}
	if other.Identity.DisplayName != "" {
		c.Identity.DisplayName = other.Identity.DisplayName
	}
}

// Validate reports every missing required value at once.
func (c Config) Validate() error {
	var errs []error
	required := []struct {
		key   string
		value string
	}{
		{"addr", c.Addr},
		{"livekit.api_key", c.LiveKit.APIKey},
		{"livekit.api_secret", c.LiveKit.APISecret},
		{"livekit.url", c.LiveKit.URL},
		{"livekit.room", c.LiveKit.Room},
		{"identity.name", c.Identity.Name},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	out := c
	out.CORSOrigins = append([]string(nil), c.CORSOrigins...)
	if out.LiveKit.APISecret != "" {
		out.LiveKit.APISecret = secretMask
	}
	return out
}

// MarshalZerologObject logs the LiveKit settings without the secret.
func (l LiveKitConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Str("api_key", l.APIKey).
		Bool("api_secret_set", l.APISecret != "").
		Str("url", l.URL).
		Str("room", l.Room)
}
