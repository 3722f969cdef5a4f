package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestExpandEnv(t *testing.T) {
	env := map[string]string{
		"HOST":  "10.0.0.1",
		"EMPTY": "",
	}

	tests := []struct {
		name        string
		in          string
		want        string
		wantMissing []string
	}{
		{"plain", "host: localhost", "host: localhost", nil},
		{"set", "host: ${HOST}", "host: 10.0.0.1", nil},
		{"set but empty", "x: ${EMPTY:-fallback}", "x: ", nil},
		{"fallback", "level: ${LEVEL:-warn}", "level: warn", nil},
		{"empty fallback", "level: ${LEVEL:-}", "level: ", nil},
		{"set wins over fallback", "host: ${HOST:-ignored}", "host: 10.0.0.1", nil},
		{"missing", "a: ${B}\nc: ${A}\nd: ${B}", "a: ${B}\nc: ${A}\nd: ${B}", []string{"A", "B"}},
		{"not a reference", "price: $5 {x}", "price: $5 {x}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := expandEnv([]byte(tt.in), mapLookup(env))
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if !slices.Equal(missing, tt.wantMissing) {
				t.Errorf("expected missing %v, got %v", tt.wantMissing, missing)
			}
		})
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("SYSBAR_TEST_HOST", "192.168.1.1")
	t.Setenv("SYSBAR_TEST_TOKEN", "s3cret")

	content := `
server:
  host: "${SYSBAR_TEST_HOST}"

auth:
  enabled: true
  user: admin
  password: "${SYSBAR_TEST_TOKEN}"

logging:
  level: "${SYSBAR_TEST_LEVEL:-warn}"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "192.168.1.1" {
		t.Errorf("expected host 192.168.1.1, got %s", cfg.Server.Host)
	}
	if cfg.Auth.Password != "s3cret" {
		t.Errorf("expected password from env, got %q", cfg.Auth.Password)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected fallback log level warn, got %s", cfg.Logging.Level)
	}
}

func TestParse_UndefinedVariable(t *testing.T) {
	_, err := Parse([]byte("auth:\n  password: ${SYSBAR_TEST_SURELY_UNSET}\n"))
	if err == nil {
		t.Fatal("expected error for undefined variable")
	}
}
