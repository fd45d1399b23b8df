package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sqlkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `
dialect: sqlite
database: /tmp/app.db
output: json
connections:
  prod:
    dialect: postgres
    host: db.internal
    port: 6432
    database: app
    username: svc
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "/tmp/app.db", cfg.Database)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, path, GetConfigFileUsed())

	require.Contains(t, cfg.Connections, "prod")
	assert.Equal(t, "db.internal", cfg.Connections["prod"].Host)
	assert.Equal(t, 6432, cfg.Connections["prod"].Port)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "dialect: sqlite\n")
	t.Setenv("SQLKIT_DIALECT", "duckdb")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Dialect)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("SQLKIT_DIALECT", "duckdb")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "")
	require.NoError(t, flags.Parse([]string{"--dialect", "mysql"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	ResetConfig()
	t.Setenv("DB_PASS", "hunter2")
	path := writeConfig(t, `
connections:
  prod:
    dialect: postgres
    password: ${DB_PASS}
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Connections["prod"].Password)
}

func TestResolveConnection(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `
dialect: postgres
host: localhost
database: dev
connections:
  prod:
    host: db.internal
    database: app
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	// Ad-hoc fields when no profile selected.
	cc, err := cfg.ResolveConnection()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cc.Dialect)
	assert.Equal(t, "dev", cc.Database)

	// Named profile, inheriting the top-level dialect.
	cfg.Connection = "prod"
	cc, err = cfg.ResolveConnection()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cc.Dialect)
	assert.Equal(t, "db.internal", cc.Host)
	assert.Equal(t, "app", cc.Database)

	cfg.Connection = "staging"
	_, err = cfg.ResolveConnection()
	assert.Error(t, err)

	// Any profile is addressable by name regardless of the selected one.
	cc, err = cfg.ResolveNamed("prod")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cc.Host)

	_, err = cfg.ResolveNamed("staging")
	assert.Error(t, err)
}

func TestPromptPasswordFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = w.WriteString("secret\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	pass, err := PromptPassword(os.Stderr, r)
	require.NoError(t, err)
	assert.Equal(t, "secret", pass)
}
