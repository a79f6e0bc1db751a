package http

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/runtime"
)

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 0, Version: "test"}
	s := NewServer(cfg, discardLogger(), validAuth(), &mockSearchService{}, nil,
		runtime.NewServices(domain.NewRuntimeConfig("none")), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunInvalidAddress(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: -1}
	s := NewServer(cfg, discardLogger(), validAuth(), &mockSearchService{}, nil, nil, nil, nil, nil)

	if err := s.Run(context.Background()); err == nil {
		t.Error("expected listen error for invalid port")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8080 || cfg.Host != "0.0.0.0" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
