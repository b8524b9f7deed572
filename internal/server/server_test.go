package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	v1 "github.com/artur-t-96/MINDY/internal/api/v1"
	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/config"
	"github.com/artur-t-96/MINDY/internal/importer"
	"github.com/artur-t-96/MINDY/internal/store"
)

func newTestServer(t *testing.T, origins []string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "kpi.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	calc := calculator.NewCalculator(st)
	api := v1.NewHandler(v1.Options{
		Store:       st,
		Calculator:  calc,
		Coordinator: importer.NewCoordinator(st, nil),
	})
	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Server.CORSOrigins = origins
	return NewServer(cfg, api, nil)
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/targets", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/targets", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestRoutesMounted(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/targets", nil))
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("status = %d headers = %v", w.Code, w.Header())
	}
}
