package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TokenHandlers provides HTTP handlers for token issuance.
type TokenHandlers struct {
	issuer TokenIssuer
	log    *zerolog.Logger
}

// NewTokenHandlers creates a new token handlers instance.
func NewTokenHandlers(issuer TokenIssuer, logger *zerolog.Logger) *TokenHandlers {
	return &TokenHandlers{
		issuer: issuer,
		log:    logger,
	}
}

// TokenResponse represents an issued token in API responses.
type TokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Room  string `json:"room"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// IssueToken handles minting a token for the configured room.
// GET /token
func (h *TokenHandlers) IssueToken(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	// The issuer logs failures itself and returns an already redacted message.
	res, err := h.issuer.Issue(c.Request.Context())
	if err != nil {
		h.log.Debug().Str("request_id", RequestID(c)).Msg("token request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token: res.Token,
		URL:   res.URL,
		Room:  res.Room,
	})
}
