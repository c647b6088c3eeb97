package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kb-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		OpenAIAPIKey:    "test-key",
		EmbeddingModel:  "text-embedding-3-small",
		ChatModel:       "gpt-4o",
		Env:             "dev",
	}
}

func TestNewRouterRefusesMemoryFallbackInProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	cfg.DatabaseURL = ""

	if _, err := NewRouter(cfg); err == nil {
		t.Fatalf("expected startup error in production without DATABASE_URL")
	} else if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestNewRouterAllowsMemoryFallbackInDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseURL = ""

	r, err := NewRouter(cfg)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	if got := Addr(""); got != ":8080" {
		t.Fatalf("Addr(\"\") = %q", got)
	}
	if got := Addr("9000"); got != ":9000" {
		t.Fatalf("Addr(9000) = %q", got)
	}
	if got := Addr(":9000"); got != ":9000" {
		t.Fatalf("Addr(:9000) = %q", got)
	}
}
