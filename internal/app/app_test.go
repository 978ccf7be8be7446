package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ShutdownTimeout = time.Second
	cfg.LiveKit = config.LiveKitConfig{
		APIKey:    "K1",
		APISecret: "S1",
		URL:       "wss://media.example.com",
		Room:      "lobby",
	}
	return cfg
}

func TestApp_ServesToken(t *testing.T) {
	cfg := testConfig(t)
	logger := zerolog.Nop()
	application := New(&cfg, &logger)

	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	resp := httptest.NewRecorder()
	application.Handler().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["room"] != "lobby" || body["url"] != "wss://media.example.com" || body["token"] == "" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	cfg := testConfig(t)
	cfg.Addr = addr
	logger := zerolog.Nop()
	application := New(&cfg, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
