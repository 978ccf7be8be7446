package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/token"
	"github.com/vovakirdan/roomgate/internal/token/livekit"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testConfig returns a complete config for the given credentials.
func testConfig(apiKey, apiSecret string) config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.LiveKit = config.LiveKitConfig{
		APIKey:    apiKey,
		APISecret: apiSecret,
		URL:       "wss://media.example.com",
		Room:      "lobby",
	}
	return cfg
}

// createTestIssuer builds an issuer backed by the LiveKit signer.
func createTestIssuer(t *testing.T, cfg config.Config) *token.Issuer {
	t.Helper()

	creds := token.Credentials{
		APIKey:    cfg.LiveKit.APIKey,
		APISecret: cfg.LiveKit.APISecret,
		URL:       cfg.LiveKit.URL,
		Room:      cfg.LiveKit.Room,
	}
	return token.NewIssuer(creds, token.DefaultPolicy(), livekit.New(), nil)
}

// createTestServer builds the HTTP server with logging disabled.
func createTestServer(t *testing.T, issuer TokenIssuer, cfg config.Config) *stdhttp.Server {
	t.Helper()

	disabledLogger := zerolog.New(nil)
	return NewServer(issuer, &cfg, &disabledLogger)
}

func doRequest(server *stdhttp.Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	server.Handler.ServeHTTP(resp, req)
	return resp
}

func doRequestFrom(server *stdhttp.Server, remoteAddr, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	resp := httptest.NewRecorder()
	server.Handler.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", resp.Body.String(), err)
	}
}

type issuerFunc func(ctx context.Context) (token.Result, error)

func (f issuerFunc) Issue(ctx context.Context) (token.Result, error) {
	return f(ctx)
}
