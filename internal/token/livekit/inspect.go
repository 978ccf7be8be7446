package livekit

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vovakirdan/roomgate/internal/token"
)

// ErrInvalidToken is returned when a token cannot be parsed or its signature does not match.
var ErrInvalidToken = errors.New("invalid token")

// videoClaims mirrors the JSON LiveKit writes into an access token.
type videoClaims struct {
	Name  string `json:"name,omitempty"`
	Video *struct {
		RoomJoin       bool   `json:"roomJoin,omitempty"`
		Room           string `json:"room,omitempty"`
		CanPublish     *bool  `json:"canPublish,omitempty"`
		CanSubscribe   *bool  `json:"canSubscribe,omitempty"`
		CanPublishData *bool  `json:"canPublishData,omitempty"`
	} `json:"video,omitempty"`
	jwt.RegisteredClaims
}

// Decoded is the readable form of a LiveKit access token.
type Decoded struct {
	APIKey    string       `json:"api_key"`
	Claims    token.Claims `json:"claims"`
	NotBefore *time.Time   `json:"not_before,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Verified  bool         `json:"verified"`
}

// Inspect decodes a LiveKit access token. With an empty apiSecret the signature is not checked.
func Inspect(raw, apiSecret string) (*Decoded, error) {
	claims := &videoClaims{}
	verified := apiSecret != ""

	if verified {
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(apiSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	}

	out := &Decoded{
		APIKey: claims.Issuer,
		Claims: token.Claims{
			Identity: claims.Subject,
			Name:     claims.Name,
		},
		Verified: verified,
	}
	if v := claims.Video; v != nil {
		out.Claims.Grant = token.Grant{
			RoomJoin:       v.RoomJoin,
			Room:           v.Room,
			CanPublish:     deref(v.CanPublish),
			CanSubscribe:   deref(v.CanSubscribe),
			CanPublishData: deref(v.CanPublishData),
		}
	}
	if claims.NotBefore != nil {
		nbf := claims.NotBefore.Time
		out.NotBefore = &nbf
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}

func deref(b *bool) bool {
	return b != nil && *b
}
