package mysql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaquel-labs/sqlkit/pkg/schema"
)

func TestQueriesAreDeterministic(t *testing.T) {
	a := New(nil)
	assert.Equal(t, a.SchemaQuery(), a.SchemaQuery())
	assert.Equal(t, a.ColumnsQuery("users", ""), a.ColumnsQuery("users", ""))
	assert.Equal(t, a.IndexesQuery("users", "app"), a.IndexesQuery("users", "app"))
}

func TestColumnsQueryScoping(t *testing.T) {
	a := New(nil)

	q := a.ColumnsQuery("users", "")
	assert.Contains(t, q, "c.TABLE_SCHEMA = DATABASE()")
	assert.Contains(t, q, "c.TABLE_NAME = 'users'")

	q = a.ColumnsQuery("o'brien", "app")
	assert.Contains(t, q, "c.TABLE_SCHEMA = 'app'")
	assert.Contains(t, q, "'o''brien'")
}

func TestExplainQuery(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "EXPLAIN FORMAT=JSON SELECT 1", a.ExplainQuery("SELECT 1", false))
	assert.Equal(t, "EXPLAIN ANALYZE SELECT 1", a.ExplainQuery("SELECT 1", true))
}

func TestParseSchemaResult(t *testing.T) {
	a := New(nil)
	tables, err := a.ParseSchemaResult([]schema.Row{
		{"TABLE_SCHEMA": "app", "TABLE_NAME": "users", "TABLE_TYPE": "BASE TABLE"},
		{"TABLE_SCHEMA": "app", "TABLE_NAME": "user_stats", "TABLE_TYPE": "VIEW"},
	})
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, schema.TypeTable, tables[0].Type)
	assert.Equal(t, schema.TypeView, tables[1].Type)
	assert.Equal(t, "app", tables[0].Schema)

	_, err = a.ParseSchemaResult([]schema.Row{{"TABLE_SCHEMA": "app"}})
	assert.Error(t, err)
}

func TestParseColumnsResult(t *testing.T) {
	a := New(nil)
	cols, err := a.ParseColumnsResult([]schema.Row{
		{
			"COLUMN_NAME": "id", "COLUMN_TYPE": "bigint unsigned",
			"IS_NULLABLE": "NO", "COLUMN_DEFAULT": nil, "COLUMN_KEY": "PRI",
		},
		{
			"COLUMN_NAME": "org_id", "COLUMN_TYPE": "bigint unsigned",
			"IS_NULLABLE": "YES", "COLUMN_DEFAULT": nil, "COLUMN_KEY": "MUL",
			"REFERENCED_TABLE_NAME": "orgs", "REFERENCED_COLUMN_NAME": "id",
		},
		{
			"COLUMN_NAME": "status", "COLUMN_TYPE": "varchar(20)",
			"IS_NULLABLE": "YES", "COLUMN_DEFAULT": "active", "COLUMN_KEY": "",
		},
	})
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.True(t, cols[0].PrimaryKey)
	assert.False(t, cols[0].Nullable)
	assert.Nil(t, cols[0].Default)

	assert.True(t, cols[1].ForeignKey)
	require.NotNil(t, cols[1].References)
	assert.Equal(t, "orgs", cols[1].References.Table)
	assert.Equal(t, "id", cols[1].References.Column)

	require.NotNil(t, cols[2].Default)
	assert.Equal(t, "active", *cols[2].Default)
	assert.False(t, cols[2].PrimaryKey)
	assert.False(t, cols[2].ForeignKey)
}

func TestParseIndexesResultGroupsMembers(t *testing.T) {
	a := New(nil)
	idxs, err := a.ParseIndexesResult([]schema.Row{
		{"INDEX_NAME": "PRIMARY", "COLUMN_NAME": "id", "NON_UNIQUE": int64(0), "SEQ_IN_INDEX": int64(1), "INDEX_TYPE": "BTREE"},
		{"INDEX_NAME": "idx_org_status", "COLUMN_NAME": "org_id", "NON_UNIQUE": int64(1), "SEQ_IN_INDEX": int64(1), "INDEX_TYPE": "BTREE"},
		{"INDEX_NAME": "idx_org_status", "COLUMN_NAME": "status", "NON_UNIQUE": int64(1), "SEQ_IN_INDEX": int64(2), "INDEX_TYPE": "BTREE"},
	})
	require.NoError(t, err)
	require.Len(t, idxs, 2)

	assert.Equal(t, "PRIMARY", idxs[0].Name)
	assert.True(t, idxs[0].Unique)
	assert.Equal(t, []string{"id"}, idxs[0].Columns)

	assert.Equal(t, "idx_org_status", idxs[1].Name)
	assert.False(t, idxs[1].Unique)
	assert.Equal(t, []string{"org_id", "status"}, idxs[1].Columns)
	assert.Equal(t, "BTREE", idxs[1].Type)
}

const explainJSON = `{
  "query_block": {
    "select_id": 1,
    "cost_info": {"query_cost": "210.40"},
    "nested_loop": [
      {
        "table": {
          "table_name": "orgs",
          "access_type": "ALL",
          "rows_examined_per_scan": 40,
          "cost_info": {"read_cost": "4.25", "prefix_cost": "8.25"}
        }
      },
      {
        "table": {
          "table_name": "users",
          "access_type": "ref",
          "key": "idx_users_org",
          "rows_examined_per_scan": 25,
          "cost_info": {"read_cost": "100.00", "prefix_cost": "202.15"}
        }
      }
    ]
  }
}`

func TestParseExplainResultJSON(t *testing.T) {
	a := New(nil)
	root, err := a.ParseExplainResult([]schema.Row{{"EXPLAIN": explainJSON}}, false)
	require.NoError(t, err)

	assert.Equal(t, "query_block", root.Type)
	require.NotNil(t, root.Cost)
	assert.InDelta(t, 210.40, *root.Cost, 0.001)
	require.Len(t, root.Children, 2)

	orgs := root.Children[0].Children[0]
	assert.Equal(t, "ALL", orgs.Type)
	assert.Equal(t, "orgs", orgs.Label)
	require.NotNil(t, orgs.Rows)
	assert.InDelta(t, 40, *orgs.Rows, 0.001)

	users := root.Children[1].Children[0]
	assert.Equal(t, "ref", users.Type)
	assert.Equal(t, "users USING idx_users_org", users.Label)
}

const analyzeTree = `-> Nested loop inner join  (cost=210.4 rows=1000) (actual time=0.052..4.33 rows=950 loops=1)
    -> Table scan on orgs  (cost=8.25 rows=40) (actual time=0.031..0.11 rows=40 loops=1)
    -> Index lookup on users using idx_users_org (org_id=orgs.id)  (cost=2.5 rows=25) (actual time=0.008..0.1 rows=24 loops=40)
`

func TestParseExplainResultAnalyze(t *testing.T) {
	a := New(nil)
	root, err := a.ParseExplainResult([]schema.Row{{"EXPLAIN": analyzeTree}}, true)
	require.NoError(t, err)

	assert.Equal(t, "Nested loop inner join", root.Type)
	require.NotNil(t, root.Cost)
	assert.InDelta(t, 210.4, *root.Cost, 0.001)
	require.NotNil(t, root.ActualTime)
	assert.InDelta(t, 4.33, *root.ActualTime, 0.001)
	require.NotNil(t, root.ActualRows)
	assert.InDelta(t, 950, *root.ActualRows, 0.001)

	require.Len(t, root.Children, 2)
	scan := root.Children[0]
	assert.Equal(t, "Table scan", scan.Type)
	assert.Equal(t, "orgs", scan.Label)

	lookup := root.Children[1]
	assert.Equal(t, "Index lookup", lookup.Type)
	assert.True(t, strings.HasPrefix(lookup.Label, "users using idx_users_org"))
	require.NotNil(t, lookup.ActualRows)
	assert.InDelta(t, 24, *lookup.ActualRows, 0.001)
}

func TestParseExplainResultErrors(t *testing.T) {
	a := New(nil)

	_, err := a.ParseExplainResult(nil, false)
	assert.Error(t, err)

	_, err = a.ParseExplainResult([]schema.Row{{"EXPLAIN": "not json"}}, false)
	assert.Error(t, err)

	_, err = a.ParseExplainResult([]schema.Row{{"other": "x"}}, false)
	assert.Error(t, err)

	_, err = a.ParseExplainResult([]schema.Row{{"EXPLAIN": "no operators here"}}, true)
	assert.Error(t, err)
}
