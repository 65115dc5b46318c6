package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `environment: test
server:
  port: 8080
storage:
  type: memory
reorder:
  seasonal_months: [11, 12, 1]
  seasonal_multiplier: 1.5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Fatalf("unexpected environment %q", cfg.Environment)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	if len(cfg.Reorder.SeasonalMonths) != 3 {
		t.Fatalf("unexpected seasonal months %v", cfg.Reorder.SeasonalMonths)
	}
}

func TestLoadRejectsBadStorage(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\nstorage:\n  type: mysql\n"))
	if err == nil {
		t.Fatalf("expected storage type error")
	}
}

func TestLoadRejectsBadSeasonalMonth(t *testing.T) {
	body := "environment: test\nstorage:\n  type: memory\nreorder:\n  seasonal_months: [13]\n"
	_, err := Load(writeConfig(t, body))
	if err == nil {
		t.Fatalf("expected seasonal month error")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	body := "environment: test\nstorage:\n  type: memory\nkafka:\n  enabled: true\n"
	_, err := Load(writeConfig(t, body))
	if err == nil {
		t.Fatalf("expected kafka brokers error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE", "memory")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("expected redis addr override, got %q", cfg.Redis.Addr)
	}
}
