package infra

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPServerCoversProviderTimeout(t *testing.T) {
	cfg := &Config{
		Port:             "9090",
		ProviderTimeout:  90 * time.Second,
		HTTPReadTimeout:  10 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
		HTTPIdleTimeout:  60 * time.Second,
	}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr() != ":9090" {
		t.Fatalf("Addr = %q, want :9090", srv.Addr())
	}
	if srv.server.WriteTimeout != 100*time.Second {
		t.Fatalf("WriteTimeout = %s, want 100s", srv.server.WriteTimeout)
	}
}
