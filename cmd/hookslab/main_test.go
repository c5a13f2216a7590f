package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/hooks/internal/config"
)

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lab")

	if err := runInit(dir, false); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if !config.Exists(dir) {
		t.Fatal("hooks.json not written")
	}

	err := runInit(dir, false)
	if err == nil || !strings.Contains(err.Error(), "C001") {
		t.Errorf("second runInit = %v, want C001", err)
	}
	if err := runInit(dir, true); err != nil {
		t.Errorf("runInit with force: %v", err)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	if err := runInit(dir, false); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	path := filepath.Join(dir, config.ConfigFileName)

	f := &globalFlags{configPath: path, logLevel: "warn"}
	cfg, err := f.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}

	f = &globalFlags{configPath: path, logLevel: "loud"}
	if _, err := f.loadConfig(); err == nil || !strings.Contains(err.Error(), "C002") {
		t.Errorf("loadConfig with a bad level = %v, want C002", err)
	}

	f = &globalFlags{configPath: filepath.Join(dir, "missing.json")}
	if _, err := f.loadConfig(); err == nil {
		t.Error("loadConfig with a missing file succeeded")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	f := &globalFlags{debug: true}
	cfg, err := f.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Debug || cfg.MaxPasses != config.DefaultMaxPasses {
		t.Errorf("cfg = %+v, want defaults with debug", cfg)
	}
}

func TestIDs(t *testing.T) {
	if got := ids(nil); got != "-" {
		t.Errorf("ids(nil) = %q", got)
	}
	if got := ids([]uint64{1, 7, 12}); got != "1,7,12" {
		t.Errorf("ids = %q", got)
	}
}

func TestBenchCasesRun(t *testing.T) {
	cfg := config.New()
	for _, bc := range benchCases(5) {
		s := newScheduler(cfg, newLogger(cfg), nil)
		op, err := bc.setup(s)
		if err != nil {
			t.Fatalf("%s: setup: %v", bc.name, err)
		}
		for i := 0; i < 3; i++ {
			if err := op(); err != nil {
				t.Fatalf("%s: %v", bc.name, err)
			}
		}
	}
}
