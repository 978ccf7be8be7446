package livekit

import (
	"fmt"

	"github.com/livekit/protocol/auth"
	"github.com/vovakirdan/roomgate/internal/token"
)

// Signer implements token.Signer with the LiveKit access token builder.
type Signer struct{}

// New creates a new Signer.
func New() *Signer {
	return &Signer{}
}

// Sign builds a LiveKit access token for claims.
// SetValidFor is not called, so tokens carry the SDK's default validity window.
func (s *Signer) Sign(apiKey, apiSecret string, claims token.Claims) (string, error) {
	at := auth.NewAccessToken(apiKey, apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:       claims.Grant.RoomJoin,
		Room:           claims.Grant.Room,
		CanPublish:     boolPtr(claims.Grant.CanPublish),
		CanSubscribe:   boolPtr(claims.Grant.CanSubscribe),
		CanPublishData: boolPtr(claims.Grant.CanPublishData),
	}
	at.SetVideoGrant(grant).
		SetIdentity(claims.Identity).
		SetName(claims.Name)

	jwt, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return jwt, nil
}

func boolPtr(v bool) *bool {
	return &v
}

// Ensure Signer implements token.Signer
var _ token.Signer = (*Signer)(nil)
