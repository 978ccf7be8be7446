package token

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Common errors for token issuance.
var (
	ErrIssuanceFailed     = errors.New("token issuance failed")
	ErrMissingCredentials = errors.New("missing credentials")
)

const redactedSecret = "[REDACTED]"

// Credentials identify this deployment to the media server and name the room tokens are minted for.
type Credentials struct {
	APIKey    string
	APISecret string
	URL       string
	Room      string
}

func (c Credentials) missing() []string {
	var out []string
	if strings.TrimSpace(c.APIKey) == "" {
		out = append(out, "api_key")
	}
	if strings.TrimSpace(c.APISecret) == "" {
		out = append(out, "api_secret")
	}
	if strings.TrimSpace(c.URL) == "" {
		out = append(out, "url")
	}
	if strings.TrimSpace(c.Room) == "" {
		out = append(out, "room")
	}
	return out
}

// Policy is the identity written into every issued token.
type Policy struct {
	Identity    string
	DisplayName string
}

// DefaultPolicy returns the identity used for browser clients.
func DefaultPolicy() Policy {
	return Policy{
		Identity:    "user-web-client",
		DisplayName: "Web User",
	}
}

// Result is a signed token plus what the caller needs to connect with it.
type Result struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Room  string `json:"room"`
}

// Issuer mints room tokens. It holds only immutable values and is safe for concurrent use.
type Issuer struct {
	creds  Credentials
	policy Policy
	signer Signer
	log    *zerolog.Logger
}

// NewIssuer creates an Issuer. A nil logger disables logging.
func NewIssuer(creds Credentials, policy Policy, signer Signer, logger *zerolog.Logger) *Issuer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Issuer{
		creds:  creds,
		policy: policy,
		signer: signer,
		log:    logger,
	}
}

// Room returns the room tokens are issued for.
func (i *Issuer) Room() string {
	return i.creds.Room
}

// Issue signs a token granting join, publish, subscribe and data publish in the configured room.
// Every failure wraps ErrIssuanceFailed and never contains the API secret.
func (i *Issuer) Issue(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, i.fail(err)
	}

	if missing := i.creds.missing(); len(missing) > 0 {
		return Result{}, i.fail(fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", ")))
	}
	if strings.TrimSpace(i.policy.Identity) == "" {
		return Result{}, i.fail(errors.New("missing identity"))
	}
	if i.signer == nil {
		return Result{}, i.fail(errors.New("no signer configured"))
	}

	signed, err := i.sign(i.claims())
	if err != nil {
		return Result{}, i.fail(err)
	}
	if signed == "" {
		return Result{}, i.fail(errors.New("signer returned an empty token"))
	}

	i.log.Info().Str("room", i.creds.Room).Str("identity", i.policy.Identity).Msg("token issued")
	return Result{
		Token: signed,
		URL:   i.creds.URL,
		Room:  i.creds.Room,
	}, nil
}

func (i *Issuer) claims() Claims {
	return Claims{
		Identity: i.policy.Identity,
		Name:     i.policy.DisplayName,
		Grant: Grant{
			RoomJoin:       true,
			Room:           i.creds.Room,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	}
}

func (i *Issuer) sign(claims Claims) (signed string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("signer panic: %v", r)
		}
	}()
	return i.signer.Sign(i.creds.APIKey, i.creds.APISecret, claims)
}

func (i *Issuer) fail(cause error) error {
	err := &issueError{
		msg:   i.redact(cause.Error()),
		cause: cause,
	}
	i.log.Error().Str("error", err.msg).Str("room", i.creds.Room).Msg("token issuance failed")
	return err
}

func (i *Issuer) redact(msg string) string {
	if i.creds.APISecret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, i.creds.APISecret, redactedSecret)
}

// issueError carries the redacted message of the underlying failure.
type issueError struct {
	msg   string
	cause error
}

func (e *issueError) Error() string {
	return ErrIssuanceFailed.Error() + ": " + e.msg
}

func (e *issueError) Unwrap() []error {
	return []error{ErrIssuanceFailed, e.cause}
}
