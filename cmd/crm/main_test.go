package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_SeedThenAdminListings(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "crm.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "migrate")
	require.NoError(t, err, out)

	out, err = execute(t, "seed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created 3 customers, 3 products and 2 orders")

	out, err = execute(t, "seed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Seed data already present")

	out, err = execute(t, "admin", "customers", "--search", "smith")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob Smith")
	assert.NotContains(t, out, "Alice Johnson")

	out, err = execute(t, "admin", "products", "--search", "")
	require.NoError(t, err)
	assert.Contains(t, out, "999.99")

	out, err = execute(t, "admin", "orders", "--since", "2000-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "1029.98")

	_, err = execute(t, "admin", "orders", "--since", "yesterday")
	assert.Error(t, err)
}

func TestCLI_Jobs(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "jobs", "list")
	require.NoError(t, err)
	assert.Equal(t, "heartbeat\nlow_stock\norder_reminders\n", out)

	_, err = execute(t, "jobs", "run", "cleanup")
	assert.Error(t, err)
}
