package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomgate/internal/config"
	applog "github.com/vovakirdan/roomgate/internal/log"
)

// options are the global flags shared by every command.
type options struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the roomgate command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "roomgate",
		Short: "Issue signed LiveKit room tokens",
		Long: `roomgate serves GET /token, which returns a signed LiveKit access token
for the configured room together with the server URL to connect to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default is ./config.yaml or $ROOMGATE_CONFIG_DEFAULT_PATH/config.yaml)")
	flags.StringVar(&o.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&o.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(
		newServeCommand(o),
		newTokenCommand(o),
		newConfigCommand(o),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// load resolves configuration and builds a logger writing to logOut.
func (o *options) load(logOut io.Writer, writeDefault bool) (config.Config, *zerolog.Logger, error) {
	bootstrap := applog.NewWithWriter(logOut, o.logLevel, o.logFormat)

	cfg, path, err := config.Load(bootstrap, config.LoadOptions{
		Path:         o.configPath,
		EnvFile:      o.envFile,
		WriteDefault: writeDefault,
	})
	if err != nil {
		return cfg, bootstrap, err
	}
	cfg.UpdateFrom(config.Config{LogLevel: o.logLevel, LogFormat: o.logFormat})

	logger := applog.NewWithWriter(logOut, cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("path", path).Msg("configuration loaded")
	return cfg, logger, nil
}
