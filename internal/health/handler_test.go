// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		{
			name: "all healthy",
			deps: []Dependency{
				{Name: "database", Checker: pinger{}},
				{Name: "redis", Checker: pinger{}, Optional: true},
			},
			wantCode:   http.StatusOK,
			wantStatus: `"status":"ok"`,
		},
		{
			name: "optional down",
			deps: []Dependency{
				{Name: "database", Checker: pinger{}},
				{Name: "redis", Checker: pinger{err: down}, Optional: true},
			},
			wantCode:   http.StatusOK,
			wantStatus: `"status":"degraded"`,
		},
		{
			name: "required down",
			deps: []Dependency{
				{Name: "database", Checker: pinger{err: down}},
				{Name: "redis", Checker: pinger{}, Optional: true},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `"status":"unavailable"`,
		},
		{
			name:       "required missing",
			deps:       []Dependency{{Name: "database"}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `"message":"not configured"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(NewHandler(tt.deps...), "/readyz")
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantStatus) {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantStatus)
			}
		})
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler(Dependency{Name: "database", Checker: pinger{}})

	if rec := get(h, "/livez"); rec.Code != http.StatusOK {
		t.Fatalf("livez = %d", rec.Code)
	}

	h.SetShutdown(true)
	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		if rec := get(h, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d, want 503", path, rec.Code)
		}
	}
}
