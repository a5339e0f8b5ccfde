package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Test.Mode != nil || cfg.Sync.PostgresDSN != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[test]
mode = "words"
words = 50
punctuation = true
user = "ana"

[sync]
postgres-dsn = "postgres://localhost/typetest"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Test.Mode == nil || *cfg.Test.Mode != "words" {
		t.Fatalf("unexpected mode: %v", cfg.Test.Mode)
	}
	if cfg.Test.Words == nil || *cfg.Test.Words != 50 {
		t.Fatalf("unexpected words: %v", cfg.Test.Words)
	}
	if cfg.Test.Punctuation == nil || !*cfg.Test.Punctuation {
		t.Fatalf("expected punctuation enabled")
	}
	if cfg.Test.Time != nil || cfg.Test.Numbers != nil {
		t.Fatalf("expected unset keys to stay nil")
	}
	if cfg.Sync.PostgresDSN == nil || *cfg.Sync.PostgresDSN != "postgres://localhost/typetest" {
		t.Fatalf("unexpected dsn: %v", cfg.Sync.PostgresDSN)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[test]\nmod = \"time\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestMergePrefersOverride(t *testing.T) {
	envMode, fileMode := "time", "quote"
	envUser := "env-user"
	base := FileConfig{Test: TestConfig{Mode: &envMode, User: &envUser}}
	over := FileConfig{Test: TestConfig{Mode: &fileMode}}

	merged := Merge(base, over)
	if *merged.Test.Mode != "quote" {
		t.Fatalf("expected override mode, got %s", *merged.Test.Mode)
	}
	if merged.Test.User == nil || *merged.Test.User != "env-user" {
		t.Fatalf("expected base user to survive")
	}
}

func TestEnvConfig(t *testing.T) {
	t.Setenv(EnvMode, "time")
	t.Setenv(EnvTime, "60")
	t.Setenv(EnvNumbers, "true")
	t.Setenv(EnvUser, "  ")

	cfg, err := EnvConfig()
	if err != nil {
		t.Fatalf("env config: %v", err)
	}
	if *cfg.Test.Mode != "time" || *cfg.Test.Time != 60 || !*cfg.Test.Numbers {
		t.Fatalf("unexpected env config: %+v", cfg.Test)
	}
	if cfg.Test.User != nil {
		t.Fatalf("expected blank variable to be ignored")
	}
}

func TestEnvConfigInvalidNumber(t *testing.T) {
	t.Setenv(EnvWords, "many")
	if _, err := EnvConfig(); err == nil {
		t.Fatalf("expected invalid words error")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TYPETEST_LANG=de\nTYPETEST_USER=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvUser, "already-set")
	t.Setenv(EnvLang, "")
	if err := os.Unsetenv(EnvLang); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv(EnvLang); got != "de" {
		t.Fatalf("expected lang from file, got %q", got)
	}
	if got := os.Getenv(EnvUser); got != "already-set" {
		t.Fatalf("expected existing variable to win, got %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
