package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/token"
)

// TokenIssuer mints room tokens.
type TokenIssuer interface {
	Issue(ctx context.Context) (token.Result, error)
}

// NewServer builds an HTTP server with the token and health routes.
func NewServer(issuer TokenIssuer, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(issuer, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewHandler builds the gin engine wrapped in CORS handling.
func NewHandler(issuer TokenIssuer, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))

	limiter := newRateLimiter(cfg.RateLimitPerMinute)
	tokenHandlers := NewTokenHandlers(issuer, logger)

	router.GET("/health", healthHandler)
	router.GET("/token", RateLimitMiddleware(limiter, logger), tokenHandlers.IssueToken)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, ErrorResponse{Detail: "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(stdhttp.StatusMethodNotAllowed, ErrorResponse{Detail: "method not allowed"})
	})

	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{stdhttp.MethodGet, stdhttp.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
	}).Handler(router)
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
}
