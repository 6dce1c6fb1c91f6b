package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
api:
  base_url: https://api.example.com
workers:
  score-application:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "screening-manager", cfg.App.Name)
	assert.Equal(t, "configs/activity-registry.json", cfg.App.RegistryPath)
	assert.Equal(t, DataSourceLive, cfg.DataSource.Mode)
	assert.Equal(t, SessionStoreKeyring, cfg.Session.Store)
	assert.Equal(t, "recruit-screening", cfg.Session.KeyringService)
	assert.Equal(t, 15000, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.Screening.TopSkills)
	assert.Equal(t, "job-statistics", cfg.Search.StatisticsIndex)
	assert.Equal(t, ":8080", cfg.Server.Address)

	w := cfg.Workers["score-application"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_RECRUIT_API", "https://staging.example.com")
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
api:
  base_url: ${TEST_RECRUIT_API}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
}

func TestLoadFromFile_TokenFromEnv(t *testing.T) {
	t.Setenv("RECRUIT_API_TOKEN", "tok-123")
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
api:
  base_url: https://api.example.com
session:
  store: env
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.Session.Token)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "api:\n  base_url: https://x\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "live mode needs base url",
			body:    "camunda:\n  broker_address: b:1\n",
			wantErr: "api.base_url is required in live mode",
		},
		{
			name:    "fixture mode needs path",
			body:    "camunda:\n  broker_address: b:1\ndatasource:\n  mode: fixture\n",
			wantErr: "datasource.fixture_path is required",
		},
		{
			name:    "unknown datasource mode",
			body:    "camunda:\n  broker_address: b:1\ndatasource:\n  mode: mock\n",
			wantErr: "datasource.mode must be",
		},
		{
			name:    "file session store needs path",
			body:    "camunda:\n  broker_address: b:1\napi:\n  base_url: https://x\nsession:\n  store: file\n",
			wantErr: "session.file_path is required",
		},
		{
			name:    "search needs addresses",
			body:    "camunda:\n  broker_address: b:1\napi:\n  base_url: https://x\nsearch:\n  enabled: true\n",
			wantErr: "database.elasticsearch.addresses is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"bulk-update-status": {Enabled: false, MaxJobsActive: 1, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "bulk-update-status"))
	assert.True(t, IsWorkerEnabled(cfg, "score-application"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "score-application").MaxJobsActive)
	assert.Equal(t, time.Second, GetDuration(GetWorkerConfig(cfg, "bulk-update-status").Timeout))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "screening", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=screening sslmode=disable", p.GetDSN())
	assert.True(t, p.Enabled())
	assert.False(t, PostgresConfig{}.Enabled())
}
