package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const minimalYAML = `
instance:
  id: test-engine
database:
  postgres:
    host: localhost
    name: pulse_test
    user: pulse
    password: testpass
`

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-engine
database:
  postgres:
    host: db.internal
    port: 5433
    name: pulse
    user: pulse
    password: secret
scoring:
  half_life: 2h
  max_contributors: 5
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-engine" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-engine")
	}
	if cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "db.internal")
	}
	if cfg.Database.Postgres.Port != 5433 {
		t.Errorf("Database.Postgres.Port = %d, want 5433", cfg.Database.Postgres.Port)
	}
	if cfg.Scoring.HalfLife != 2*time.Hour {
		t.Errorf("Scoring.HalfLife = %v, want 2h", cfg.Scoring.HalfLife)
	}
	if cfg.Scoring.MaxContributors != 5 {
		t.Errorf("Scoring.MaxContributors = %d, want 5", cfg.Scoring.MaxContributors)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-engine
database:
  postgres:
    host: localhost
    name: pulse
    user: pulse
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Database.Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, minimalYAML)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want default %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Scoring.SentimentWeight != DefaultSentimentWeight {
		t.Errorf("Scoring.SentimentWeight = %v, want default %v", cfg.Scoring.SentimentWeight, DefaultSentimentWeight)
	}
	if cfg.Scoring.HalfLife != DefaultHalfLife {
		t.Errorf("Scoring.HalfLife = %v, want default %v", cfg.Scoring.HalfLife, DefaultHalfLife)
	}
	if cfg.Scoring.MaxContributors != DefaultMaxContributors {
		t.Errorf("Scoring.MaxContributors = %d, want default %d", cfg.Scoring.MaxContributors, DefaultMaxContributors)
	}
	if cfg.Scoring.Timeframe != DefaultTimeframe {
		t.Errorf("Scoring.Timeframe = %v, want default %v", cfg.Scoring.Timeframe, DefaultTimeframe)
	}
	if cfg.Runner.Concurrency != DefaultRunnerConcurrency {
		t.Errorf("Runner.Concurrency = %d, want default %d", cfg.Runner.Concurrency, DefaultRunnerConcurrency)
	}
	if cfg.Store.MaxRetries != DefaultMaxRetries {
		t.Errorf("Store.MaxRetries = %d, want default %d", cfg.Store.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Embed.Dims != DefaultEmbedDims {
		t.Errorf("Embed.Dims = %d, want default %d", cfg.Embed.Dims, DefaultEmbedDims)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, minimalYAML)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Instance.ID != "test-engine" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-engine")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *EngineConfig {
		cfg := &EngineConfig{
			Instance: InstanceConfig{ID: "e1"},
			Database: DatabaseConfig{Postgres: DBConfig{
				Host: "localhost", Name: "pulse", User: "u", Password: "p",
			}},
		}
		cfg.applyDefaults()
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*EngineConfig)
		wantSub string
	}{
		{"missing instance id", func(c *EngineConfig) { c.Instance.ID = "" }, "instance.id"},
		{"missing db host", func(c *EngineConfig) { c.Database.Postgres.Host = "" }, "host"},
		{"missing db password", func(c *EngineConfig) { c.Database.Postgres.Password = "" }, "password"},
		{"min conns above max", func(c *EngineConfig) { c.Database.Postgres.MinConns = 20 }, "min_conns"},
		{"weights off balance", func(c *EngineConfig) { c.Scoring.SentimentWeight = 0.9 }, "weights"},
		{"negative weight", func(c *EngineConfig) { c.Scoring.NoveltyWeight = -0.1 }, "non-negative"},
		{"zero half life", func(c *EngineConfig) { c.Scoring.HalfLife = -time.Hour }, "half_life"},
		{"zero concurrency", func(c *EngineConfig) { c.Runner.Concurrency = -1 }, "concurrency"},
		{"negative embed dims", func(c *EngineConfig) { c.Embed.Dims = -1 }, "embedding.dims"},
		{"bad metrics port", func(c *EngineConfig) { c.Metrics.Port = 70000 }, "metrics.port"},
	}

	for _, tt := range tests {
		cfg := valid()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantSub) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.wantSub)
		}
	}
}
