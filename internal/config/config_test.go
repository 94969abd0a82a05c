package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Review.Backend != "api" {
		t.Errorf("Review.Backend = %q, want api", cfg.Review.Backend)
	}
	if filepath.Base(cfg.Store.Path) != "statements.db" {
		t.Errorf("Store.Path = %q, want .../statements.db", cfg.Store.Path)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "psgrade.yaml")
	content := `log:
  level: debug
server:
  addr: ":9090"
store:
  path: /tmp/psgrade-test.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PSGRADE_REVIEW_BACKEND", "cli")
	t.Setenv("PSGRADE_SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"file value", cfg.Log.Level, "debug"},
		{"env overrides file", cfg.Server.Addr, ":7070"},
		{"env only", cfg.Review.Backend, "cli"},
		{"file path", cfg.Store.Path, "/tmp/psgrade-test.db"},
		{"default kept", cfg.Log.Format, "console"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/data/x.db", filepath.Join(home, "data/x.db")},
		{"/abs/x.db", "/abs/x.db"},
		{"rel/x.db", "rel/x.db"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
