package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Remote.Driver != RemoteNone {
		t.Errorf("expected no remote driver by default, got %q", cfg.Remote.Driver)
	}
	if cfg.Remote.Collection != "projects" {
		t.Errorf("expected default collection %q, got %q", "projects", cfg.Remote.Collection)
	}
	if cfg.Remote.Timeout != 10*time.Second {
		t.Errorf("expected default remote timeout 10s, got %s", cfg.Remote.Timeout)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected default data_dir %q, got %q", "data", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.iepsite.yml")

	original := DefaultConfig()
	original.Site.Title = "Earth Lab"
	original.Server.Port = 9090
	original.Remote.Driver = RemoteFirestore
	original.Remote.ProjectID = "innovation-earth-projects"
	original.Remote.Timeout = 3 * time.Second
	original.Site.TagSuggestions = []string{"eco", "youth"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Site.Title != original.Site.Title {
		t.Errorf("title: got %q, want %q", loaded.Site.Title, original.Site.Title)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.Remote.Driver != original.Remote.Driver {
		t.Errorf("driver: got %q, want %q", loaded.Remote.Driver, original.Remote.Driver)
	}
	if loaded.Remote.ProjectID != original.Remote.ProjectID {
		t.Errorf("project_id: got %q, want %q", loaded.Remote.ProjectID, original.Remote.ProjectID)
	}
	if loaded.Remote.Timeout != original.Remote.Timeout {
		t.Errorf("timeout: got %s, want %s", loaded.Remote.Timeout, original.Remote.Timeout)
	}
	if len(loaded.Site.TagSuggestions) != 2 || loaded.Site.TagSuggestions[1] != "youth" {
		t.Errorf("tag_suggestions: got %v", loaded.Site.TagSuggestions)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("IEP_REMOTE__DRIVER", "memory")
	t.Setenv("IEP_DATA_DIR", "/var/lib/iepsite")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Remote.Driver != RemoteMemory {
		t.Errorf("env override failed: got %q, want %q", loaded.Remote.Driver, RemoteMemory)
	}
	if loaded.DataDir != "/var/lib/iepsite" {
		t.Errorf("env override failed: got %q", loaded.DataDir)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"IEP_DATA_DIR", "data_dir"},
		{"IEP_SERVER__PORT", "server.port"},
		{"IEP_REMOTE__PROJECT_ID", "remote.project_id"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown driver", func(c *Config) { c.Remote.Driver = "mongo" }},
		{"firestore without project", func(c *Config) { c.Remote.Driver = RemoteFirestore }},
		{"memory without collection", func(c *Config) {
			c.Remote.Driver = RemoteMemory
			c.Remote.Collection = ""
		}},
		{"zero remote timeout", func(c *Config) { c.Remote.Timeout = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/iep"
	if got := cfg.DatabasePath(); got != "/srv/iep/iepsite.db" {
		t.Errorf("DatabasePath() = %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"eco", []string{"eco"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
