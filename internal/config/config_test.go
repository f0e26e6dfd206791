package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Workspace.Retention.Std() != 24*time.Hour {
		t.Fatalf("retention = %v, want 24h", cfg.Workspace.Retention.Std())
	}
	if cfg.Ideas.Source != "sheet" {
		t.Fatalf("ideas source = %q, want sheet", cfg.Ideas.Source)
	}
	if cfg.Voice.Language != "en" {
		t.Fatalf("language = %q, want en", cfg.Voice.Language)
	}
	if cfg.Video.Width != 1280 || cfg.Video.Height != 720 {
		t.Fatalf("video size = %dx%d, want 1280x720", cfg.Video.Width, cfg.Video.Height)
	}
}

func TestLoadOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
workspace:
  retention: 1h
ideas:
  source: reddit
  subreddits: [truecrime, unresolvedmysteries]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Workspace.Retention.Std() != time.Hour {
		t.Fatalf("retention = %v, want 1h", cfg.Workspace.Retention.Std())
	}
	if cfg.Ideas.Source != "reddit" {
		t.Fatalf("ideas source = %q", cfg.Ideas.Source)
	}
	if len(cfg.Ideas.Subreddits) != 2 {
		t.Fatalf("subreddits = %v", cfg.Ideas.Subreddits)
	}
	// Unset fields still get defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("host = %q, want default", cfg.Server.Host)
	}
	if cfg.Voice.Language != "en" {
		t.Fatalf("language = %q, want default", cfg.Voice.Language)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
