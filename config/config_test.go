package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.config.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MONGO_URL", "DB_NAME", "CORS_ORIGINS", "HOST", "PORT", "LOG_LEVEL", "EVENT_DRIVER", "EVENT_URL", "OTEL_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{"mongo_url":"mongodb://db:27017","db_name":"shop","cors_origins":["https://a.example"],"http":{"host":"h","port":8080},"log":{"level":"debug"},"event":{"driver":"nats","url":"nats://n:4222"},"tracing":{"exporter":"stdout"}}`)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.MongoURL != "mongodb://db:27017" || c.DBName != "shop" {
		t.Errorf("unexpected database settings: %+v", c)
	}
	if c.HTTP.Host != "h" || c.HTTP.Port != 8080 {
		t.Errorf("unexpected HTTP: %+v", c.HTTP)
	}
	if c.Event.Driver != "nats" || c.Event.URL != "nats://n:4222" {
		t.Errorf("unexpected Event: %+v", c.Event)
	}
	if len(c.CORSOrigins) != 1 {
		t.Errorf("unexpected CORSOrigins: %+v", c.CORSOrigins)
	}
}

func TestLoadConfig_FileNotExist(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.json")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "not a json")
	_, err := LoadConfig(path)
	if err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "storefront")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PORT", "3000")

	cfg, err := Load("/nonexistent/storefront.config.json")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
	assert.Equal(t, "storefront", cfg.DBName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Empty(t, cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Event.Driver)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"mongo_url":"mongodb://file:27017","db_name":"from_file","http":{"port":9000}}`)
	t.Setenv("DB_NAME", "from_env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://file:27017", cfg.MongoURL)
	assert.Equal(t, "from_env", cfg.DBName)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantKeys []string
	}{
		{name: "both missing", env: nil, wantKeys: []string{"MONGO_URL", "DB_NAME"}},
		{name: "db name missing", env: map[string]string{"MONGO_URL": "mongodb://x"}, wantKeys: []string{"DB_NAME"}},
		{name: "mongo url blank", env: map[string]string{"MONGO_URL": "  ", "DB_NAME": "shop"}, wantKeys: []string{"MONGO_URL"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("/nonexistent/storefront.config.json")
			require.Error(t, err)

			var missing *MissingError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantKeys, missing.Keys)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URL", "mongodb://x")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("PORT", "not-an-int")

	_, err := Load("/nonexistent/storefront.config.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
	assert.False(t, IsConfigError(err))
}

func TestIsConfigError_Wrapped(t *testing.T) {
	err := fmt.Errorf("load app: %w", &MissingError{Keys: []string{"DB_NAME"}})
	assert.True(t, IsConfigError(err))
	assert.Equal(t, "load app: missing required environment variables: DB_NAME", err.Error())
	assert.False(t, IsConfigError(fmt.Errorf("other")))
}
