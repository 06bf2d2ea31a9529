package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zad_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromPath_Valid(t *testing.T) {
	path := writeConfigFile(t, `
environment: test
storage:
  backend: sqlite
  sqlitePath: /tmp/zad.db
operator:
  id: admin-1
  role: admin
notificationEmail: team@example.org
reminderSchedule: "DTSTART:20260101T000000Z\nRRULE:FREQ=MONTHLY;BYMONTHDAY=1"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/zad.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "admin-1", cfg.Operator.ID)
	assert.Equal(t, "team@example.org", cfg.NotificationEmail)
}

func TestLoadFromPath_PostgresBackend(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: postgres
  postgresURL: postgres://localhost:5432/zad
operator:
  id: admin-1
  role: admin
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
}

func TestLoadFromPath_UnknownBackend(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: cassandra
operator:
  id: admin-1
  role: admin
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_PostgresWithoutURL(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: postgres
operator:
  id: admin-1
  role: admin
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_MissingOperator(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: sqlite
  sqlitePath: /tmp/zad.db
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_InvalidReminderSchedule(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: sqlite
  sqlitePath: /tmp/zad.db
operator:
  id: admin-1
  role: admin
reminderSchedule: not-an-rrule
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rrule")
}

func TestLoadFromPath_InvalidEmail(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: sqlite
  sqlitePath: /tmp/zad.db
operator:
  id: admin-1
  role: admin
notificationEmail: not-an-email
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
