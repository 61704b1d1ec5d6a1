package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverValkey, Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{"valkey ok", DatabaseConfig{Driver: DriverValkey, Addrs: []string{"v:6379"}}, ""},
		{"redis ok", DatabaseConfig{Driver: DriverRedis, Addrs: []string{"r:6379"}}, ""},
		{"sqlite ok", DatabaseConfig{Driver: DriverSQLite, SQLitePath: "/tmp/p.db"}, ""},
		{"valkey without addrs", DatabaseConfig{Driver: DriverValkey}, "database.addrs is required"},
		{"sqlite without path", DatabaseConfig{Driver: DriverSQLite}, "database.sqlite_path is required"},
		{"unknown driver", DatabaseConfig{Driver: "postgres"}, "database.driver must be one of"},
		{"negative db", DatabaseConfig{Driver: DriverRedis, Addrs: []string{"r"}, DB: -1}, "database.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database = tt.db
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_EmptyAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.APIKeys = []string{"key-1", "  "}

	err := cfg.Validate()
	if err == nil || err.Error() != "auth.api_keys[1] is empty" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg.Logging.Level = "WARN"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Database.KeyPrefix != "mechfind:" {
		t.Errorf("expected KeyPrefix='mechfind:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Discovery.FetchTimeout() != 2*time.Second {
		t.Errorf("expected FetchTimeout=2s, got %v", cfg.Discovery.FetchTimeout())
	}
	if cfg.Discovery.CoalesceFetches {
		t.Error("coalescing must be opt-in")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 9000, ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{Driver: DriverSQLite, ReadinessTimeout: 15, KeyPrefix: "custom:"},
		Discovery: DiscoveryConfig{FetchTimeoutMs: 750},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 || cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.KeyPrefix != "custom:" {
		t.Errorf("database overridden: %+v", cfg.Database)
	}
	if cfg.Discovery.FetchTimeout() != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %v", cfg.Discovery.FetchTimeout())
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("MECHFIND_DB_ADDR", "valkey.internal:6380")
	t.Setenv("MECHFIND_API_KEY", "")

	cfg, err := Parse([]byte(`
http:
  port: 8081
database:
  driver: valkey
  addrs: ["${MECHFIND_DB_ADDR}"]
  password: "${MECHFIND_DB_PASSWORD:-}"
discovery:
  fetch_timeout_ms: ${MECHFIND_FETCH_TIMEOUT_MS:-1500}
  coalesce_fetches: true
auth:
  api_keys: ["${MECHFIND_API_KEY:-dev-key}"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Addrs[0] != "valkey.internal:6380" {
		t.Errorf("addr not expanded: %v", cfg.Database.Addrs)
	}
	if cfg.Discovery.FetchTimeoutMs != 1500 || !cfg.Discovery.CoalesceFetches {
		t.Errorf("discovery = %+v", cfg.Discovery)
	}
	if cfg.Auth.APIKeys[0] != "dev-key" {
		t.Errorf("empty env var must fall back to default, got %q", cfg.Auth.APIKeys[0])
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected YAML error")
	}
	if _, err := Parse([]byte("database:\n  driver: mongo\n")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	body := "database:\n  driver: sqlite\n  sqlite_path: ./providers.db\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.SQLitePath != "./providers.db" {
		t.Errorf("sqlite path = %q", cfg.Database.SQLitePath)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_RepositoryConfigs(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("MECHFIND_DB_ADDR", "localhost:6379")
			if _, err := Load(env); err != nil {
				t.Fatalf("config/%s.yaml: %v", env, err)
			}
		})
	}
}
