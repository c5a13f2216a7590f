package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.MaxPasses != DefaultMaxPasses {
		t.Errorf("MaxPasses = %d, want %d", cfg.MaxPasses, DefaultMaxPasses)
	}
	if cfg.Devtools.Addr != DefaultDevtoolsAddr {
		t.Errorf("Devtools.Addr = %q, want %q", cfg.Devtools.Addr, DefaultDevtoolsAddr)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	// Missing file
	if _, err := Load(configPath); err == nil || !strings.Contains(err.Error(), "C001") {
		t.Errorf("expected C001 for missing config, got %v", err)
	}

	configJSON := `{
  "logLevel": "warn",
  "maxPasses": 12,
  "devtools": {
    "addr": "0.0.0.0:9090"
  },
  "demo": {
    "tickInterval": "250ms"
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel = %v, want WARN", cfg.SlogLevel())
	}
	if cfg.MaxPasses != 12 {
		t.Errorf("MaxPasses = %d, want 12", cfg.MaxPasses)
	}
	if cfg.Devtools.Addr != "0.0.0.0:9090" {
		t.Errorf("Devtools.Addr = %q", cfg.Devtools.Addr)
	}
	if cfg.TickInterval() != 250*time.Millisecond {
		t.Errorf("TickInterval = %v, want 250ms", cfg.TickInterval())
	}
	// Unset fields keep their defaults.
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.FetchDelay() != 300*time.Millisecond {
		t.Errorf("FetchDelay = %v, want 300ms", cfg.FetchDelay())
	}
	if cfg.Path() != configPath {
		t.Errorf("Path = %q, want %q", cfg.Path(), configPath)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "C001") {
		t.Errorf("Expected C001 error, got: %v", err)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(configPath, []byte(`{"logLevel": "loud"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "C002") {
		t.Errorf("Expected C002 error, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, true},
		{"mixed case level", func(c *Config) { c.LogLevel = "Error" }, true},
		{"unknown level", func(c *Config) { c.LogLevel = "verbose" }, false},
		{"zero passes", func(c *Config) { c.MaxPasses = 0 }, false},
		{"negative passes", func(c *Config) { c.MaxPasses = -3 }, false},
		{"bad tick", func(c *Config) { c.Demo.TickInterval = "soon" }, false},
		{"zero tick", func(c *Config) { c.Demo.TickInterval = "0s" }, false},
		{"negative fetch delay", func(c *Config) { c.Demo.FetchDelay = "-1s" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestSlogLevelDebugOverride(t *testing.T) {
	cfg := New()
	cfg.LogLevel = "error"
	cfg.Debug = true
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want DEBUG", cfg.SlogLevel())
	}
}

func TestSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.MaxPasses = 7

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.MaxPasses != 7 {
		t.Errorf("MaxPasses = %d, want 7", loaded.MaxPasses)
	}

	loaded.Debug = true
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reloaded.Debug {
		t.Error("Debug not persisted")
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should be false for empty directory")
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists should be true after creating config")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromDir(nestedDir); err == nil {
		t.Error("LoadFromDir should fail when no config exists")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"maxPasses": 3}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(nestedDir)
	if err != nil {
		t.Fatalf("LoadFromDir error: %v", err)
	}
	if cfg.MaxPasses != 3 {
		t.Errorf("MaxPasses = %d, want 3", cfg.MaxPasses)
	}

	root, err := FindRoot(filepath.Join(tmpDir, "a"))
	if err != nil {
		t.Fatalf("FindRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindRoot = %q, want %q", root, tmpDir)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.LogLevel != DefaultLogLevel || cfg.MaxPasses != DefaultMaxPasses {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Demo.TickInterval != DefaultTickInterval || cfg.Demo.FetchDelay != DefaultFetchDelay {
		t.Errorf("demo defaults not applied: %+v", cfg.Demo)
	}
}
