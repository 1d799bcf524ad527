package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shashiranjanraj/cafefront/config"
)

func TestDefaults(t *testing.T) {
	config.Reset()

	if got := config.APIURL(); got != "http://127.0.0.1:8000" {
		t.Errorf("expected default API URL, got %s", got)
	}
	if got := config.Currency(); got != "KES" {
		t.Errorf("expected KES, got %s", got)
	}
	if got := config.APITimeout(); got != 30*time.Second {
		t.Errorf("expected 30s, got %s", got)
	}
	if got := config.CacheDriver(); got != "memory" {
		t.Errorf("expected memory driver, got %s", got)
	}
	if !config.CSRFEnabled() {
		t.Error("expected CSRF to be enabled by default")
	}
}

func TestLoadFromMergesFilesInOrder(t *testing.T) {
	t.Cleanup(config.Reset)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	if err := os.WriteFile(jsonPath, []byte(`{"api_url":"http://json:9000/","currency":"USD","csrf_enabled":false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte("CURRENCY=\"EUR\"\nCATALOG_TTL=5s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := config.LoadFrom(jsonPath, envPath); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := config.APIURL(); got != "http://json:9000" {
		t.Errorf("expected trailing slash trimmed, got %s", got)
	}
	if got := config.Currency(); got != "EUR" {
		t.Errorf(".env should override app.json, got %s", got)
	}
	if got := config.CatalogTTL(); got != 5*time.Second {
		t.Errorf("expected 5s, got %s", got)
	}
	if config.CSRFEnabled() {
		t.Error("expected CSRF disabled from app.json boolean")
	}
}

func TestEnvironmentWins(t *testing.T) {
	t.Cleanup(config.Reset)
	t.Setenv("CURRENCY", "TZS")

	if err := config.LoadFrom("missing.json", "missing.env"); err != nil {
		t.Fatalf("missing files must not fail: %v", err)
	}
	if got := config.Currency(); got != "TZS" {
		t.Errorf("expected environment override, got %s", got)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Reset()

	config.Set("API_TIMEOUT", "soon")
	config.Set("CACHE_DRIVER", "memcached")
	config.Set("LOGIN_RATE_LIMIT", "-3")

	if got := config.APITimeout(); got != 30*time.Second {
		t.Errorf("expected fallback timeout, got %s", got)
	}
	if got := config.CacheDriver(); got != "memory" {
		t.Errorf("expected fallback driver, got %s", got)
	}
	if got := config.LoginRateLimit(); got != 10 {
		t.Errorf("expected fallback rate, got %d", got)
	}
}

func TestCatalogTTLZeroDisablesCaching(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Reset()

	config.Set("CATALOG_TTL", "0")
	if got := config.CatalogTTL(); got != 0 {
		t.Errorf("expected zero ttl, got %s", got)
	}

	config.Set("CATALOG_TTL", "-5s")
	if got := config.CatalogTTL(); got != 30*time.Second {
		t.Errorf("expected fallback for negative ttl, got %s", got)
	}
}
