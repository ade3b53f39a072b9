package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("unexpected addr: %s", cfg.Addr())
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected request timeout: %s", cfg.Server.RequestTimeout)
	}
	if cfg.Content.Dir != "" {
		t.Errorf("expected embedded content by default, got %q", cfg.Content.Dir)
	}
	if cfg.Content.PublicDir != "public" {
		t.Errorf("unexpected public dir: %s", cfg.Content.PublicDir)
	}
	if cfg.Site.Name != "ioquake3" {
		t.Errorf("unexpected site name: %s", cfg.Site.Name)
	}
	if cfg.Status.CacheTTL != 2*time.Minute {
		t.Errorf("unexpected status cache ttl: %s", cfg.Status.CacheTTL)
	}
	if cfg.Dev {
		t.Errorf("dev mode should be off by default")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"QUAKE3_WEB_SERVER_PORT":         "9090",
		"QUAKE3_WEB_SERVER_READ_TIMEOUT": "20s",
		"QUAKE3_WEB_CONTENT_DIR":         " ./site ",
		"QUAKE3_WEB_SITE_NAME":           "Quake3 Project",
		"QUAKE3_WEB_SITE_BASE_URL":       " https://ioquake3.org ",
		"QUAKE3_WEB_STATUS_FEED_URL":     "https://status.example.org/feed.json",
		"QUAKE3_WEB_STATUS_CACHE_TTL":    "30s",
		"QUAKE3_WEB_DEV":                 "true",
		"PORT":                           "7070",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("prefixed port should win over PORT, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Content.Dir != "./site" {
		t.Errorf("unexpected content dir: %q", cfg.Content.Dir)
	}
	if cfg.Site.Name != "Quake3 Project" {
		t.Errorf("unexpected site name: %s", cfg.Site.Name)
	}
	if cfg.Site.BaseURL != "https://ioquake3.org" {
		t.Errorf("unexpected base url: %q", cfg.Site.BaseURL)
	}
	if cfg.Status.FeedURL != "https://status.example.org/feed.json" {
		t.Errorf("unexpected feed url: %s", cfg.Status.FeedURL)
	}
	if cfg.Status.CacheTTL != 30*time.Second {
		t.Errorf("unexpected cache ttl: %s", cfg.Status.CacheTTL)
	}
	if !cfg.Dev {
		t.Errorf("expected dev mode")
	}
}

func TestLoadHonoursPlatformPort(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"PORT": "7070"}), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"QUAKE3_WEB_SERVER_PORT":         "http",
		"QUAKE3_WEB_SERVER_IDLE_TIMEOUT": "0s",
		"QUAKE3_WEB_STATUS_FEED_URL":     "file:///etc/passwd",
		"QUAKE3_WEB_SITE_BASE_URL":       "ioquake3.org",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]bool{
		"QUAKE3_WEB_SERVER_PORT":         true,
		"QUAKE3_WEB_SERVER_IDLE_TIMEOUT": true,
		"QUAKE3_WEB_STATUS_FEED_URL":     true,
		"QUAKE3_WEB_SITE_BASE_URL":       true,
	}
	fields := vErr.Fields()
	if len(fields) != len(want) {
		t.Fatalf("unexpected fields: %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected invalid field %s", f)
		}
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	_, err := Load(WithEnvMap(map[string]string{"QUAKE3_WEB_SERVER_READ_TIMEOUT": "soon"}), WithoutSystemEnv())
	if err == nil {
		t.Fatal("expected parse error")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Fatalf("expected parse error, got validation error %v", err)
	}
}
