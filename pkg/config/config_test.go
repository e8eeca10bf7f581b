package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rentcast/pkg/predict"
)

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Client{
		Endpoint:  "http://127.0.0.1:5000/predict",
		Animation: time.Second,
		LogLevel:  "warn",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadClientFromEnv(t *testing.T) {
	t.Setenv("RENTCAST_ENDPOINT", "http://example.test/predict")
	t.Setenv("RENTCAST_ANIMATION", "250ms")
	t.Setenv("RENTCAST_TIMEOUT", "5s")
	t.Setenv("RENTCAST_VALIDATE", "true")
	t.Setenv("RENTCAST_TEMPLATES", "/etc/rentcast/templates")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "http://example.test/predict" || cfg.Animation != 250*time.Millisecond || cfg.Timeout != 5*time.Second || !cfg.Validate || cfg.Templates != "/etc/rentcast/templates" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("RENTCAST_TIMEOUT", "soon")

	_, err := LoadClient()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadStubDefaults(t *testing.T) {
	cfg, err := LoadStub()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:5000" || cfg.PriceTable != "" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestClientCheck(t *testing.T) {
	cfg := Client{}
	if err := cfg.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if cfg.Endpoint != predict.DefaultEndpoint {
		t.Fatalf("endpoint: %q", cfg.Endpoint)
	}

	cfg = Client{Animation: -time.Second}
	if err := cfg.Check(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	cfg = Client{Timeout: -time.Second}
	if err := cfg.Check(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
