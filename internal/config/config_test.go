package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/livetree/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Serve.Port != DefaultPort {
		t.Errorf("Serve.Port = %d, want %d", cfg.Serve.Port, DefaultPort)
	}
	if cfg.Serve.Host != DefaultHost {
		t.Errorf("Serve.Host = %q, want %q", cfg.Serve.Host, DefaultHost)
	}
	if cfg.Style.Prefix != DefaultStylePrefix {
		t.Errorf("Style.Prefix = %q", cfg.Style.Prefix)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level() = %v", cfg.Level())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load without a file: %v", err)
	}
	if cfg.Serve.Port != DefaultPort {
		t.Errorf("missing file should give defaults, port = %d", cfg.Serve.Port)
	}

	configJSON := `{
  "logLevel": "debug",
  "style": {"prefix": "app-"},
  "serve": {"port": 8080, "tickMillis": 250}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Serve.Port != 8080 {
		t.Errorf("Serve.Port = %d, want 8080", cfg.Serve.Port)
	}
	if cfg.Serve.Host != DefaultHost {
		t.Errorf("Serve.Host = %q, want default", cfg.Serve.Host)
	}
	if cfg.Tick() != 250*time.Millisecond {
		t.Errorf("Tick() = %v", cfg.Tick())
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v", cfg.Level())
	}
	if cfg.Style.Prefix != "app-" {
		t.Errorf("Style.Prefix = %q", cfg.Style.Prefix)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.ServeAddress() != "localhost:8080" {
		t.Errorf("ServeAddress() = %q", cfg.ServeAddress())
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		code    string
	}{
		{"invalid json", `{"serve": `, "C001"},
		{"bad port", `{"serve": {"port": 70000}}`, "C002"},
		{"bad level", `{"logLevel": "loud"}`, "C002"},
		{"bad prefix", `{"style": {"prefix": "a b"}}`, "C002"},
		{"negative tick", `{"serve": {"tickMillis": -1}}`, "C002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := LoadFile(filepath.Join(tmpDir, "missing.json"))
	if !errors.HasCode(err, "C001") {
		t.Errorf("missing file err = %v, want C001", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := Default()
	cfg.Serve.Port = 4000

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Serve.Port != 4000 {
		t.Errorf("Serve.Port = %d, want 4000", loaded.Serve.Port)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	if Exists(tmpDir) {
		t.Error("Exists should be false for an empty dir")
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists should be true")
	}
}
