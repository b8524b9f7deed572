package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("KPIBOARD_DATA_DIR", "")

	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("info = %+v", info)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[server]
port = 8080
cors_origins = ["http://localhost:5173"]

[auth]
admin_password = "from-file"

[import]
strategy = "assisted"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("KPIBOARD_DATA_DIR", "/var/lib/kpiboard")

	cfg, info, err := LoadConfigWithInfo(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !info.FileFound || !info.PortSpecified {
		t.Fatalf("info = %+v", info)
	}
	if cfg.Server.Port != 8080 || cfg.Import.Strategy != "assisted" || cfg.Import.MaxUploadMB != 50 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Auth.AdminPassword != "from-env" || cfg.Narrative.APIKey != "sk-test" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if got := DataDir(cfg); got != "/var/lib/kpiboard" {
		t.Fatalf("data dir = %s", got)
	}
}

func TestLoadConfig_PortEnv(t *testing.T) {
	t.Setenv("PORT", "4321")
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 4321 || !info.PortSpecified {
		t.Fatalf("port = %d, info = %+v", cfg.Server.Port, info)
	}
}

func TestLoadConfig_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestEnsureDataDir(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")
	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, sub := range []string{"uploads", "inbox", "backups"} {
		if fi, err := os.Stat(filepath.Join(dir, sub)); err != nil || !fi.IsDir() {
			t.Fatalf("%s missing: %v", sub, err)
		}
	}
	if got := DBPath(cfg); got != filepath.Join(dir, "kpi.db") {
		t.Fatalf("db path = %s", got)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Server.Port = 9000
	cfg.Log.Level = "debug"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("KPIBOARD_DATA_DIR", "")
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
