package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maruel/discdb/internal/discs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_Default(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP != "localhost:3000" {
		t.Errorf("HTTP = %q", cfg.HTTP)
	}
	if cfg.IDRule != discs.IDRuleTail {
		t.Errorf("IDRule = %v", cfg.IDRule)
	}
	if cfg.RateLimits != DefaultRateLimits() {
		t.Errorf("RateLimits = %+v", cfg.RateLimits)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `http: ":8080"
id_rule: max
hide_error_detail: true
seed_file: seed.yaml
rate_limits:
  write_per_min: 0
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP != ":8080" || cfg.IDRule != discs.IDRuleMax || !cfg.HideErrorDetail || cfg.SeedFile != "seed.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RateLimits.WritePerMin != 0 {
		t.Errorf("WritePerMin = %d, want 0", cfg.RateLimits.WritePerMin)
	}
	if cfg.RateLimits.ReadPerMin != DefaultRateLimits().ReadPerMin {
		t.Errorf("ReadPerMin = %d, want default", cfg.RateLimits.ReadPerMin)
	}
	if cfg.MaxRequestBodyBytes != 1<<20 {
		t.Errorf("MaxRequestBodyBytes = %d, want default", cfg.MaxRequestBodyBytes)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP != Default().HTTP {
		t.Errorf("HTTP = %q", cfg.HTTP)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "port: 3000\n", "port"},
		{"bad id rule", "id_rule: uuid\n", "uuid"},
		{"negative rate", "rate_limits:\n  read_per_min: -1\n", "read_per_min"},
		{"negative body", "max_request_body_bytes: -5\n", "max_request_body_bytes"},
		{"empty http", "http: \"\"\n", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Load() should fail")
		}
	})
}
