package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_URL", "https://example.test")
	t.Setenv("SEARCH_DEBOUNCE_MS", "")
	t.Setenv("LOGIN_URL", "")

	cfg := Load()
	if cfg.SearchDebounce != 400*time.Millisecond {
		t.Fatalf("SearchDebounce = %v, want 400ms", cfg.SearchDebounce)
	}
	if cfg.Links.LoginURL != "https://example.test/login" {
		t.Fatalf("LoginURL = %q", cfg.Links.LoginURL)
	}
	if cfg.DefaultPageLimit != 10 {
		t.Fatalf("DefaultPageLimit = %d, want 10", cfg.DefaultPageLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CAROUSEL_INTERVAL_MS", "1500")
	t.Setenv("MAX_PAGE_LIMIT", "not-a-number")
	t.Setenv("BUNDEBUG", "true")

	cfg := Load()
	if cfg.CarouselInterval != 1500*time.Millisecond {
		t.Fatalf("CarouselInterval = %v", cfg.CarouselInterval)
	}
	if cfg.MaxPageLimit != 100 {
		t.Fatalf("MaxPageLimit = %d, want fallback 100", cfg.MaxPageLimit)
	}
	if !cfg.BunDebug {
		t.Fatal("BunDebug should be true")
	}
}
