package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Details {
		t.Error("expected details to be off by default")
	}
	if !d.Progress {
		t.Error("expected progress to be on by default")
	}
	if d.Serve.Addr != "127.0.0.1:8080" {
		t.Errorf("expected serve addr 127.0.0.1:8080, got %s", d.Serve.Addr)
	}
	if d.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", d.Watch.Debounce)
	}
	if d.OutputDir == "" {
		t.Error("expected a default output dir")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scanfold.yaml")
	content := "details: true\noutput_dir: /tmp/reports\nserve:\n  addr: 0.0.0.0:9000\nwatch:\n  debounce: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	s, used, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if used != path {
		t.Errorf("expected config file %s, got %s", path, used)
	}
	if !s.Details {
		t.Error("expected details from file")
	}
	if s.OutputDir != "/tmp/reports" {
		t.Errorf("expected output dir /tmp/reports, got %s", s.OutputDir)
	}
	if s.Serve.Addr != "0.0.0.0:9000" {
		t.Errorf("expected serve addr from file, got %s", s.Serve.Addr)
	}
	if s.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", s.Watch.Debounce)
	}
	if !s.Progress {
		t.Error("expected progress default to survive")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scanfold.yaml")
	if err := os.WriteFile(path, []byte("details: false\nserve:\n  addr: 1.2.3.4:1\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("SCANFOLD_DETAILS", "true")
	t.Setenv("SCANFOLD_SERVE_ADDR", "127.0.0.1:7000")

	v := viper.New()
	SetDefaults(v)
	s, _, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Details {
		t.Error("expected env to enable details")
	}
	if s.Serve.Addr != "127.0.0.1:7000" {
		t.Errorf("expected env serve addr, got %s", s.Serve.Addr)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	if _, _, err := Load(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("details: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	v := viper.New()
	SetDefaults(v)
	if _, _, err := Load(v, path); err == nil {
		t.Error("expected an error for a malformed config file")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	s := Defaults()
	s.Details = true
	s.OutputDir = "/srv/reports"
	s.Watch.Debounce = 750 * time.Millisecond

	if err := Save(path, s, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	loaded, _, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Details || loaded.OutputDir != "/srv/reports" || loaded.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("loaded settings differ: %+v", loaded)
	}

	if err := Save(path, s, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}
	if err := Save(path, s, true); err != nil {
		t.Errorf("forced save failed: %v", err)
	}
}
