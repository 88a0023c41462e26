// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ewastex/marketplace-api/internal/config"
	"github.com/ewastex/marketplace-api/internal/health"
)

func TestShutdownFlipsProbes(t *testing.T) {
	hh := health.NewHandler()
	srv := New(Config{
		ServerConfig: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ShutdownTimeout: time.Second,
		},
		HealthHandler: hh,
	})
	hh.RegisterRoutes(srv.Router())

	if err := srv.Shutdown(context.Background(), 0); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz after shutdown = %d, want 503", rec.Code)
	}
}

func TestShutdownHonoursContext(t *testing.T) {
	srv := New(Config{ServerConfig: config.ServerConfig{ShutdownTimeout: time.Second}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.Shutdown(ctx, time.Hour); err == nil {
		t.Fatal("expected context error")
	}
}
