package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomgate/internal/app"
	"github.com/vovakirdan/roomgate/internal/config"
)

func newServeCommand(o *options) *cobra.Command {
	var (
		addr    string
		lenient bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the token HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load(cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(config.Config{Addr: addr})

			if err := cfg.Validate(); err != nil {
				if !lenient {
					return err
				}
				logger.Warn().Err(err).Msg("configuration incomplete, token requests will fail")
			}
			logger.Info().
				Object("livekit", cfg.LiveKit).
				Str("identity", cfg.Identity.Name).
				Msg("starting roomgate")

			if !strings.EqualFold(cfg.LogLevel, "debug") {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.New(&cfg, logger).Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "start even if required configuration is missing")
	return cmd
}
