package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
service:
  id: "test-service"
ownership:
  initial_owner: "alice"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-service" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-service")
	}
	if cfg.Ownership.InitialOwner != "alice" {
		t.Errorf("Ownership.InitialOwner = %q, want %q", cfg.Ownership.InitialOwner, "alice")
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  path: "/tmp/test.db"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID == "" {
		t.Error("Service.ID default should not be empty")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled should default to false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CASTELLAN_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("CASTELLAN_OWNERSHIP_INITIAL_OWNER", "env-owner")
	t.Setenv("CASTELLAN_API_PORT", "9090")

	cfg, err := Load(writeConfig(t, `
database:
  path: "/tmp/file.db"
ownership:
  initial_owner: "file-owner"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Ownership.InitialOwner != "env-owner" {
		t.Errorf("Ownership.InitialOwner = %q, want env override", cfg.Ownership.InitialOwner)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want env override 9090", cfg.API.Port)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(_ *Config) {},
			wantErr: false,
		},
		{
			name:    "empty service id",
			mutate:  func(c *Config) { c.Service.ID = "" },
			wantErr: true,
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name: "influxdb enabled without token",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
				c.InfluxDB.Token = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
