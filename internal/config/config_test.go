package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != DefaultHost || cfg.Server.Port != DefaultPort || cfg.Server.HostKeyPath != DefaultHostKeyPath {
		t.Fatalf("server defaults = %+v", cfg.Server)
	}
	if cfg.Store.Backend != "memory" || cfg.Store.Redis.Addr != "localhost:6379" {
		t.Fatalf("store defaults = %+v", cfg.Store)
	}
	if cfg.Content.Dir != "content" || cfg.Game.Profile != "local" {
		t.Fatalf("content/game defaults = %+v %+v", cfg.Content, cfg.Game)
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Fatalf("log level = %v", cfg.LogLevel())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "railshooter.yaml")
	data := `
log:
  level: debug
store:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
game:
  seed: 42
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SSH_PORT", "2300")
	t.Setenv("RAILSHOOTER_CONTENT_WATCH", "true")
	t.Setenv("RAILSHOOTER_STORE_POSTGRES_DSN", "postgres://localhost/runs")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"log level", cfg.LogLevel(), log.DebugLevel},
		{"backend", cfg.Store.Backend, "redis"},
		{"redis addr", cfg.Store.Redis.Addr, "cache:6379"},
		{"redis db", cfg.Store.Redis.DB, 2},
		{"seed", cfg.Game.Seed, int64(42)},
		{"legacy port env", cfg.Server.Port, "2300"},
		{"watch env", cfg.Content.Watch, true},
		{"dsn env", cfg.Store.Postgres.DSN, "postgres://localhost/runs"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"backend", map[string]string{"RAILSHOOTER_STORE_BACKEND": "etcd"}},
		{"log level", map[string]string{"RAILSHOOTER_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("RAILSHOOTER_TEST_VALUE", "set")
	if got := GetEnv("RAILSHOOTER_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("RAILSHOOTER_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv fallback = %q", got)
	}
}
