package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding = EmbeddingConfig{
		APIKey: "test-key",
		Budget: BudgetConfig{
			DailyTokenLimit: 1000000,
			Action:          "invalid_action",
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `embedding.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Embedding = EmbeddingConfig{
				APIKey: "test-key",
				Budget: BudgetConfig{Action: action},
			}

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_PoolFloorAboveCeiling(t *testing.T) {
	cfg := validConfig()
	cfg.Search = SearchConfig{PoolFloor: 2000, PoolCeiling: 1000}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for pool floor above ceiling")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.RRFK != 60 {
		t.Errorf("expected RRFK=60, got %d", cfg.Search.RRFK)
	}
	if cfg.Search.PoolHeadroom != 20 {
		t.Errorf("expected PoolHeadroom=20, got %d", cfg.Search.PoolHeadroom)
	}
	if cfg.Search.PoolFloor != 60 {
		t.Errorf("expected PoolFloor=60, got %d", cfg.Search.PoolFloor)
	}
	if cfg.Search.PoolCeiling != 1000 {
		t.Errorf("expected PoolCeiling=1000, got %d", cfg.Search.PoolCeiling)
	}
	if cfg.Index.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Index.HNSWM)
	}
	if cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("expected HNSWEFConstruct=200, got %d", cfg.Index.HNSWEFConstruct)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected Provider=openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected Model=text-embedding-3-small, got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 256 {
		t.Errorf("expected Dimensions=256, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.TimeoutMS != 1500 {
		t.Errorf("expected TimeoutMS=1500, got %d", cfg.Embedding.TimeoutMS)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Search:   SearchConfig{RRFK: 90, PoolHeadroom: 50, PoolFloor: 100, PoolCeiling: 500},
		Index:    IndexConfig{HNSWM: 32, HNSWEFConstruct: 400},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.RRFK != 90 {
		t.Errorf("expected RRFK=90, got %d", cfg.Search.RRFK)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GLYPHDEX_TEST_SECRET", "s3cret")

	in := []byte("api_key: ${GLYPHDEX_TEST_SECRET}\nmodel: ${GLYPHDEX_TEST_MISSING:-fallback}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: s3cret\nmodel: fallback\n" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
