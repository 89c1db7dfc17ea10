package config

import "testing"

func TestParseEnvReadsValues(t *testing.T) {
	t.Setenv("VITALOG_TEST_PORT", "9000")
	t.Setenv("VITALOG_TEST_NAME", "vitalog")

	var cfg struct {
		Port int    `env:"VITALOG_TEST_PORT"`
		Name string `env:"VITALOG_TEST_NAME"`
	}
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Port)
	}
	if cfg.Name != "vitalog" {
		t.Fatalf("name = %q, want vitalog", cfg.Name)
	}
}

func TestParseEnvAppliesDefaults(t *testing.T) {
	var cfg struct {
		Port int `env:"VITALOG_TEST_UNSET_PORT" envDefault:"8080"`
	}
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want default 8080", cfg.Port)
	}
}
