// Package mysql provides the MySQL dialect adapter, also reused by the
// MariaDB adapter.
package mysql

import (
	"fmt"
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/schema"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// Adapter implements dialect.Adapter for MySQL.
type Adapter struct {
	name   string
	logger *slog.Logger
}

// New creates a MySQL adapter. If logger is nil, a discard logger is
// used.
func New(logger *slog.Logger) *Adapter {
	return newNamed("mysql", logger)
}

// NewNamed creates an adapter registered under a different identifier
// with MySQL semantics; the MariaDB adapter is built this way.
func NewNamed(name string, logger *slog.Logger) *Adapter {
	return newNamed(name, logger)
}

func newNamed(name string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{name: name, logger: logger}
}

// Name returns the dialect identifier.
func (a *Adapter) Name() string { return a.name }

// Options returns the MySQL lexical extensions: backtick identifiers and
// backslash escapes inside strings.
func (a *Adapter) Options() statement.Options {
	return statement.Options{BacktickQuotes: true, BackslashEscapes: true}
}

// schemaExpr renders the schema restriction: the current database when
// none is given, a literal otherwise.
func schemaExpr(schemaName string) string {
	if schemaName == "" {
		return "DATABASE()"
	}
	return dialect.QuoteLiteral(schemaName)
}

// SchemaQuery enumerates tables and views of the current database.
func (a *Adapter) SchemaQuery() string {
	return `SELECT TABLE_SCHEMA, TABLE_NAME, TABLE_TYPE
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE()
  AND TABLE_TYPE IN ('BASE TABLE', 'VIEW')
ORDER BY TABLE_SCHEMA, TABLE_NAME`
}

// ColumnsQuery enumerates ordinal-ordered columns with key membership
// folded in from KEY_COLUMN_USAGE.
func (a *Adapter) ColumnsQuery(table, schemaName string) string {
	return fmt.Sprintf(`SELECT
    c.COLUMN_NAME,
    c.COLUMN_TYPE,
    c.IS_NULLABLE,
    c.COLUMN_DEFAULT,
    c.COLUMN_KEY,
    k.REFERENCED_TABLE_NAME,
    k.REFERENCED_COLUMN_NAME
FROM information_schema.COLUMNS c
LEFT JOIN information_schema.KEY_COLUMN_USAGE k
  ON k.TABLE_SCHEMA = c.TABLE_SCHEMA
 AND k.TABLE_NAME = c.TABLE_NAME
 AND k.COLUMN_NAME = c.COLUMN_NAME
 AND k.REFERENCED_TABLE_NAME IS NOT NULL
WHERE c.TABLE_SCHEMA = %[1]s AND c.TABLE_NAME = %[2]s
ORDER BY c.ORDINAL_POSITION`, schemaExpr(schemaName), dialect.QuoteLiteral(table))
}

// IndexesQuery enumerates index member rows; ParseIndexesResult groups
// them per index.
func (a *Adapter) IndexesQuery(table, schemaName string) string {
	return fmt.Sprintf(`SELECT INDEX_NAME, COLUMN_NAME, NON_UNIQUE, SEQ_IN_INDEX, INDEX_TYPE
FROM information_schema.STATISTICS
WHERE TABLE_SCHEMA = %s AND TABLE_NAME = %s
ORDER BY INDEX_NAME, SEQ_IN_INDEX`, schemaExpr(schemaName), dialect.QuoteLiteral(table))
}

// ExplainQuery builds the EXPLAIN statement. The planner estimate comes
// back as one JSON document; analyze switches to EXPLAIN ANALYZE, whose
// output is the indented TREE text with actual timings.
func (a *Adapter) ExplainQuery(query string, analyze bool) string {
	if analyze {
		return "EXPLAIN ANALYZE " + query
	}
	return "EXPLAIN FORMAT=JSON " + query
}

// ParseSchemaResult transforms information_schema.TABLES rows.
func (a *Adapter) ParseSchemaResult(rows []schema.Row) ([]schema.Table, error) {
	tables := make([]schema.Table, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("TABLE_NAME")
		if !ok {
			return nil, fmt.Errorf("schema row missing TABLE_NAME: %v", r)
		}
		schemaName, _ := r.String("TABLE_SCHEMA")
		typ := schema.TypeTable
		if tt, _ := r.String("TABLE_TYPE"); tt == "VIEW" {
			typ = schema.TypeView
		}
		tables = append(tables, schema.Table{Schema: schemaName, Name: name, Type: typ})
	}
	return tables, nil
}

// ParseColumnsResult transforms ColumnsQuery rows. COLUMN_KEY carries PK
// membership; an FK reference is present when KEY_COLUMN_USAGE matched.
func (a *Adapter) ParseColumnsResult(rows []schema.Row) ([]schema.Column, error) {
	cols := make([]schema.Column, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("COLUMN_NAME")
		if !ok {
			return nil, fmt.Errorf("columns row missing COLUMN_NAME: %v", r)
		}
		typ, _ := r.String("COLUMN_TYPE")
		key, _ := r.String("COLUMN_KEY")
		col := schema.Column{
			Name:       name,
			Type:       typ,
			Nullable:   r.Bool("IS_NULLABLE"),
			Default:    r.StringPtr("COLUMN_DEFAULT"),
			PrimaryKey: key == "PRI",
		}
		if ft, ok := r.String("REFERENCED_TABLE_NAME"); ok {
			fc, _ := r.String("REFERENCED_COLUMN_NAME")
			col.ForeignKey = true
			col.References = &schema.ForeignKeyRef{Table: ft, Column: fc}
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// ParseIndexesResult groups STATISTICS member rows into one index per
// INDEX_NAME, preserving first-seen order and column ordinality.
func (a *Adapter) ParseIndexesResult(rows []schema.Row) ([]schema.Index, error) {
	var order []string
	byName := make(map[string]*schema.Index)

	for _, r := range rows {
		name, ok := r.String("INDEX_NAME")
		if !ok {
			return nil, fmt.Errorf("index row missing INDEX_NAME: %v", r)
		}
		idx, seen := byName[name]
		if !seen {
			typ, _ := r.String("INDEX_TYPE")
			nonUnique, _ := r.Int("NON_UNIQUE")
			idx = &schema.Index{Name: name, Unique: nonUnique == 0, Type: typ}
			byName[name] = idx
			order = append(order, name)
		}
		if col, ok := r.String("COLUMN_NAME"); ok {
			idx.Columns = append(idx.Columns, col)
		}
	}

	idxs := make([]schema.Index, 0, len(order))
	for _, name := range order {
		idxs = append(idxs, *byName[name])
	}
	return idxs, nil
}

// ParseExplainResult dispatches on the output shape: EXPLAIN ANALYZE
// returns the indented TREE text, EXPLAIN FORMAT=JSON one JSON document,
// both under the single EXPLAIN column.
func (a *Adapter) ParseExplainResult(rows []schema.Row, analyze bool) (*schema.ExplainNode, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty explain result")
	}
	doc, ok := rows[0].String("EXPLAIN")
	if !ok {
		return nil, fmt.Errorf("explain row missing EXPLAIN column: %v", rows[0])
	}
	if analyze {
		return parseTreeText(doc)
	}
	return parseExplainJSON(doc)
}

// Ensure interface compliance.
var _ dialect.Adapter = (*Adapter)(nil)
