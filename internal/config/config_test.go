package config_test

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/crm-service/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, "http://localhost:8000/graphql", cfg.Jobs.GraphQLEndpoint)
	assert.Equal(t, 5*time.Second, cfg.Jobs.Heartbeat.Timeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Jobs.ReminderWindow)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  port: "9090"
database:
  driver: postgres
  host: db
  user: crm
  dbname: crm
inventory:
  low_stock_threshold: 5
jobs:
  request_timeout: 3s
  heartbeat:
    interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CRM_GRAPHQL_ENDPOINT", "http://api:9090/graphql")

	cfg, err := config.Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 3*time.Second, cfg.Jobs.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Jobs.Heartbeat.Interval)
	assert.Equal(t, "http://api:9090/graphql", cfg.Jobs.GraphQLEndpoint)
	assert.Equal(t, "host=db port=5432 user=crm password=secret dbname=crm sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "pgx5://crm:secret@db:5432/crm?sslmode=disable", cfg.Database.MigrateURL())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CRM_RESTOCK_INCREMENT=25\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CRM_RESTOCK_INCREMENT") })

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Inventory.RestockIncrement)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown_driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "bad_bool", env: map[string]string{"LOG_PRETTY": "maybe"}},
		{name: "bad_int", env: map[string]string{"CRM_LOW_STOCK_THRESHOLD": "ten"}},
		{name: "bad_duration", env: map[string]string{"CRM_REQUEST_TIMEOUT": "soon"}},
		{name: "zero_increment", env: map[string]string{"CRM_RESTOCK_INCREMENT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load("", "")
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_MigrateURL_EscapesCredentials(t *testing.T) {
	cfg := config.DatabaseConfig{
		User:     "crm admin",
		Password: "p@ss/w?rd:1",
		Host:     "db",
		Port:     "5432",
		DBName:   "crm",
		SSLMode:  "require",
	}

	raw := cfg.MigrateURL()

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "pgx5", parsed.Scheme)
	assert.Equal(t, "crm admin", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss/w?rd:1", password)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/crm", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
}
