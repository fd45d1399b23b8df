package conn

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(discardLogger())

	id, err := m.Open(ctx, Config{Dialect: "sqlite"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{id}, m.IDs())

	c, err := m.Get(id)
	require.NoError(t, err)
	require.NoError(t, c.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL)"))

	require.NoError(t, m.Close(id))
	assert.Empty(t, m.IDs())

	_, err = m.Get(id)
	assert.Error(t, err)
	assert.Error(t, m.Close(id))
}

func TestManagerOpenUnsupportedDialect(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Open(context.Background(), Config{Dialect: "oracle"})
	assert.Error(t, err)
}

func TestManagerCloseAll(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil)

	_, err := m.Open(ctx, Config{Dialect: "sqlite"})
	require.NoError(t, err)
	_, err = m.Open(ctx, Config{Dialect: "sqlite"})
	require.NoError(t, err)
	assert.Len(t, m.IDs(), 2)

	require.NoError(t, m.CloseAll())
	assert.Empty(t, m.IDs())
}

// End-to-end: run the sqlite adapter's introspection queries against a
// real in-memory database and parse the rows it hands back.
func TestSQLiteIntrospectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, Config{Dialect: "sqlite"}, discardLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	for _, ddl := range []string{
		`CREATE TABLE orgs (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			org_id INTEGER REFERENCES orgs(id),
			email TEXT NOT NULL,
			status TEXT DEFAULT 'active'
		)`,
		`CREATE UNIQUE INDEX idx_users_email ON users (email)`,
		`CREATE VIEW active_users AS SELECT * FROM users WHERE status = 'active'`,
	} {
		require.NoError(t, c.Exec(ctx, ddl))
	}

	a, err := dialect.Get("sqlite")
	require.NoError(t, err)

	res, err := c.Query(ctx, a.SchemaQuery())
	require.NoError(t, err)
	tables, err := a.ParseSchemaResult(res.Rows)
	require.NoError(t, err)

	names := make(map[string]bool, len(tables))
	for _, tbl := range tables {
		names[tbl.Name] = true
	}
	assert.True(t, names["users"])
	assert.True(t, names["orgs"])
	assert.True(t, names["active_users"])

	res, err = c.Query(ctx, a.ColumnsQuery("users", ""))
	require.NoError(t, err)
	cols, err := a.ParseColumnsResult(res.Rows)
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, "id", cols[0].Name)
	assert.True(t, cols[0].PrimaryKey)
	assert.False(t, cols[2].Nullable)
	require.NotNil(t, cols[3].Default)

	res, err = c.Query(ctx, a.IndexesQuery("users", ""))
	require.NoError(t, err)
	idxs, err := a.ParseIndexesResult(res.Rows)
	require.NoError(t, err)
	require.NotEmpty(t, idxs)

	var emailIdx bool
	for _, idx := range idxs {
		if idx.Name == "idx_users_email" {
			emailIdx = true
			assert.True(t, idx.Unique)
			assert.Equal(t, []string{"email"}, idx.Columns)
		}
	}
	assert.True(t, emailIdx)

	res, err = c.Query(ctx, a.ExplainQuery("SELECT * FROM users WHERE email = 'a@example.com'", false))
	require.NoError(t, err)
	plan, err := a.ParseExplainResult(res.Rows, false)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Children)
}
