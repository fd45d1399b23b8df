// Package commands_test provides tests for CLI command creation and the
// connection-free commands.
package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaquel-labs/sqlkit/internal/cli/config"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/all"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

func TestNewSplitCommand(t *testing.T) {
	cmd := NewSplitCommand()

	assert.Equal(t, "split [SQL]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("input"))
}

func TestNewStatementCommand(t *testing.T) {
	cmd := NewStatementCommand()

	assert.Equal(t, "statement [SQL]", cmd.Use)
	for _, flag := range []string{"offset", "input"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewExplainCommand(t *testing.T) {
	cmd := NewExplainCommand()

	assert.Equal(t, "explain [SQL]", cmd.Use)
	for _, flag := range []string{"analyze", "input"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

// withConfig loads a fresh config for command execution outside the
// root command's PersistentPreRunE.
func withConfig(t *testing.T, dialect, outputMode string) {
	t.Helper()
	config.ResetConfig()
	t.Setenv("SQLKIT_DIALECT", dialect)
	t.Setenv("SQLKIT_OUTPUT", outputMode)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	t.Cleanup(config.ResetConfig)
}

func TestSplitCommandJSON(t *testing.T) {
	withConfig(t, "postgres", "json")

	cmd := NewSplitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"SELECT 1; SELECT 'a;b';"})

	require.NoError(t, cmd.Execute())

	var spans []statement.Span
	require.NoError(t, json.Unmarshal(out.Bytes(), &spans))
	require.Len(t, spans, 2)
	assert.Equal(t, "SELECT 1", spans[0].Text)
	assert.Equal(t, "SELECT 'a;b'", spans[1].Text)
}

func TestSplitCommandFromFile(t *testing.T) {
	withConfig(t, "mysql", "json")

	path := filepath.Join(t.TempDir(), "input.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT `a;b`; SELECT 2;"), 0o600))

	cmd := NewSplitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--input", path})

	require.NoError(t, cmd.Execute())

	var spans []statement.Span
	require.NoError(t, json.Unmarshal(out.Bytes(), &spans))
	require.Len(t, spans, 2)
	assert.Equal(t, "SELECT `a;b`", spans[0].Text)
}

func TestStatementCommandResolvesOffset(t *testing.T) {
	withConfig(t, "postgres", "json")

	cmd := NewStatementCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"SELECT 1; SELECT 2;", "--offset", "12"})

	require.NoError(t, cmd.Execute())

	var span statement.Span
	require.NoError(t, json.Unmarshal(out.Bytes(), &span))
	assert.Equal(t, "SELECT 2", span.Text)
	assert.Equal(t, 1, span.Index)
}

func TestDialectsCommand(t *testing.T) {
	withConfig(t, "postgres", "json")

	cmd := NewDialectsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())

	var names []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &names))
	assert.Contains(t, names, "postgres")
	assert.Contains(t, names, "duckdb")
	assert.Len(t, names, 6)
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "sqlkit v1.2.3")
}

func TestInitCommand(t *testing.T) {
	withConfig(t, "postgres", "text")

	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	cmd := NewInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "sqlkit.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dialect: postgres")
	assert.Contains(t, string(data), "connections:")

	// Refuses to overwrite without --force.
	cmd = NewInitCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	assert.Error(t, cmd.Execute())

	cmd = NewInitCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--force"})
	assert.NoError(t, cmd.Execute())
}

func TestReadSQLPrecedence(t *testing.T) {
	cmd := NewSplitCommand()

	// Positional argument wins.
	sql, err := readSQL(cmd, []string{"SELECT", "1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", sql)

	// Stdin is last resort; empty stdin is an error.
	cmd.SetIn(bytes.NewReader(nil))
	_, err = readSQL(cmd, nil, "")
	assert.Error(t, err)

	cmd.SetIn(bytes.NewBufferString("SELECT 2;"))
	sql, err = readSQL(cmd, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2;", sql)
}
