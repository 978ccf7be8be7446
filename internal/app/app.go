package app

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/token"
	"github.com/vovakirdan/roomgate/internal/token/livekit"
	transporthttp "github.com/vovakirdan/roomgate/internal/transport/http"
)

// App wires together the token issuer and the HTTP transport.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	issuer          *token.Issuer
	log             *zerolog.Logger
}

// NewIssuer builds the LiveKit-backed issuer for cfg.
func NewIssuer(cfg *config.Config, logger *zerolog.Logger) *token.Issuer {
	creds := token.Credentials{
		APIKey:    cfg.LiveKit.APIKey,
		APISecret: cfg.LiveKit.APISecret,
		URL:       cfg.LiveKit.URL,
		Room:      cfg.LiveKit.Room,
	}
	policy := token.Policy{
		Identity:    cfg.Identity.Name,
		DisplayName: cfg.Identity.DisplayName,
	}
	return token.NewIssuer(creds, policy, livekit.New(), logger)
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	issuer := NewIssuer(cfg, logger)
	server := transporthttp.NewServer(issuer, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		issuer:          issuer,
		log:             logger,
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Str("room", a.issuer.Room()).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
