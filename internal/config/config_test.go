package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written, got %v", err)
	}
	if cfg.Backend != DefaultBackend || cfg.SlotKey != DefaultSlotKey {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	wantData := filepath.Join(dir, "nested", DefaultDataDir)
	if cfg.DataDir != wantData {
		t.Fatalf("expected data dir %s, got %s", wantData, cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join(wantData, DefaultDBName) {
		t.Fatalf("expected db next to data, got %s", cfg.DBPath)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "backend") || !strings.Contains(string(data), "[keys]") {
		t.Fatalf("expected written toml to carry fields, got:\n%s", data)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != cfg {
		t.Fatalf("expected reload to match first launch, got %+v", again)
	}
}

func TestLoadOrCreateReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
backend = "sqlite"
db_path = "/var/lib/cal.db"
default_weeks = 2

[keys]
quit = "x"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.DefaultWeeks != 2 {
		t.Fatalf("expected overrides, got %+v", cfg)
	}
	if cfg.StoragePath() != "/var/lib/cal.db" {
		t.Fatalf("expected absolute db path kept, got %s", cfg.StoragePath())
	}
	if cfg.Keys.Quit != "x" || cfg.Keys.Select != "v" {
		t.Fatalf("expected merged keymap, got %+v", cfg.Keys)
	}
	if cfg.SlotKey != DefaultSlotKey {
		t.Fatalf("expected default slot key, got %q", cfg.SlotKey)
	}
}

func TestLoadOrCreateRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"backend": `backend = "redis"`,
		"weeks":   `default_weeks = -1`,
		"syntax":  `backend = `,
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), DefaultConfigFileName)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadOrCreate(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/elsewhere.toml")
	if got := ResolveConfigPath(); got != "/tmp/elsewhere.toml" {
		t.Fatalf("expected env override, got %s", got)
	}

	t.Setenv(EnvConfigPath, "")
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	want := filepath.Join(home, ".config", "calboard", DefaultConfigFileName)
	if got := ResolveConfigPath(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestHomeRelativeDataDir(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte(`data_dir = "~/calboard-data"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, "calboard-data") {
		t.Fatalf("expected ~ expansion, got %s", cfg.DataDir)
	}
}
