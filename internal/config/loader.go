package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "ROOMGATE"
	envConfigDefaultPath = "ROOMGATE_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
	defaultEnvFile       = ".env"
)

// envAliases lets deployments keep the plain LiveKit variable names.
var envAliases = map[string][]string{
	"livekit.api_key":    {"ROOMGATE_LIVEKIT_API_KEY", "LIVEKIT_API_KEY"},
	"livekit.api_secret": {"ROOMGATE_LIVEKIT_API_SECRET", "LIVEKIT_API_SECRET"},
	"livekit.url":        {"ROOMGATE_LIVEKIT_URL", "LIVEKIT_URL"},
	"livekit.room":       {"ROOMGATE_LIVEKIT_ROOM", "ROOM_NAME"},
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Path is an explicit config file. Empty means resolve the default location.
	Path string
	// EnvFile is a dotenv file loaded into the process environment. Empty means ".env".
	EnvFile string
	// WriteDefault creates the config file with defaults when it does not exist.
	WriteDefault bool
}

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < .env file < env vars < caller overrides.
func Load(logger *zerolog.Logger, opts LoadOptions) (Config, string, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	cfg := Default()

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return cfg, "", err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return cfg, "", fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	configPath := resolveConfigPath(opts.Path)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
		if opts.WriteDefault {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil {
				logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
			} else {
				logger.Info().Str("path", configPath).Msg("created default config")
			}
		} else {
			logger.Debug().Str("path", configPath).Msg("config file not found, using defaults and env")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, configPath, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("read_header_timeout", cfg.ReadHeaderTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("cors_origins", cfg.CORSOrigins)
	v.SetDefault("rate_limit_per_minute", cfg.RateLimitPerMinute)
	v.SetDefault("livekit.api_key", cfg.LiveKit.APIKey)
	v.SetDefault("livekit.api_secret", cfg.LiveKit.APISecret)
	v.SetDefault("livekit.url", cfg.LiveKit.URL)
	v.SetDefault("livekit.room", cfg.LiveKit.Room)
	v.SetDefault("identity.name", cfg.Identity.Name)
	v.SetDefault("identity.display_name", cfg.Identity.DisplayName)
}

func loadEnvFile(path string) error {
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
