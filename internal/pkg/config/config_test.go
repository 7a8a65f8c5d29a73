package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != StoreDriverPostgres || cfg.AuthMode != AuthModeDelegated {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if len(cfg.Evaluation.Criteria) != 5 || cfg.Evaluation.Criteria[0] != "proatividade" {
		t.Errorf("unexpected criteria: %v", cfg.Evaluation.Criteria)
	}
	if cfg.Notion.CategoryProperty != "Assessoria" || cfg.Notion.NameProperty != "Nome" {
		t.Errorf("unexpected notion properties: %+v", cfg.Notion)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                  "production",
		"JWT_SECRET":           "s3cret",
		"STORE_DRIVER":         "mongo",
		"AUTH_MODE":            "static",
		"EVAL_CRITERIA":        "a, b",
		"EVAL_MAX_SCORE":       "10",
		"EVAL_VERIFY_SUBJECTS": "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMongo || cfg.AuthMode != AuthModeStatic {
		t.Errorf("unexpected drivers: %s / %s", cfg.StoreDriver, cfg.AuthMode)
	}
	if len(cfg.Evaluation.Criteria) != 2 || cfg.Evaluation.Criteria[1] != "b" {
		t.Errorf("expected trimmed criteria, got %q", cfg.Evaluation.Criteria)
	}
	if cfg.Evaluation.MaxScore != 10 || !cfg.Evaluation.VerifySubjects {
		t.Errorf("unexpected evaluation config: %+v", cfg.Evaluation)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad driver":         {"STORE_DRIVER": "sqlite"},
		"bad auth mode":      {"AUTH_MODE": "oauth"},
		"missing jwt secret": {"ENV": "production"},
		"inverted range":     {"EVAL_MIN_SCORE": "6"},
	}
	for name, env := range cases {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
