package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  address: ":9090"
redis:
  driver: memory
  pool_size: 20
logging:
  level: debug
  format: text
  outputs:
    - stderr
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address)
	}
	if cfg.Redis.Driver != "memory" || cfg.Redis.PoolSize != 20 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	// 未填写的字段仍取默认值。
	if cfg.Redis.Address != "localhost:6379" || cfg.Redis.DialTimeoutSeconds != 5 {
		t.Fatalf("defaults not applied: %+v", cfg.Redis)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "redis": {"address": "redis.internal:6379", "db": 2},
  "logging": {"audit": {"enabled": true, "path": "logs/audit.log"}}
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Address != "redis.internal:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if !cfg.Logging.Audit.Enabled || cfg.Logging.Audit.Path != "logs/audit.log" {
		t.Fatalf("unexpected audit config: %+v", cfg.Logging.Audit)
	}
	if cfg.Server.Address != ":8080" || cfg.Redis.Driver != "redis" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := writeFile(t, "broken.yaml", "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
