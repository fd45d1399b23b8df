// Package duckdb provides the DuckDB dialect adapter.
package duckdb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/schema"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// Adapter implements dialect.Adapter for DuckDB.
type Adapter struct {
	logger *slog.Logger
}

// New creates a DuckDB adapter. If logger is nil, a discard logger is
// used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Name returns the dialect identifier.
func (a *Adapter) Name() string { return "duckdb" }

// DefaultSchema returns the schema used when none is given.
func (a *Adapter) DefaultSchema() string { return "main" }

// Options returns the lexical extensions DuckDB shares with Postgres:
// dollar-quoted strings.
func (a *Adapter) Options() statement.Options {
	return statement.Options{DollarQuotes: true}
}

// SchemaQuery enumerates tables and views, skipping DuckDB's bundled
// system and temp catalogs.
func (a *Adapter) SchemaQuery() string {
	return `SELECT table_schema, table_name, table_type
FROM information_schema.tables
WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
  AND table_type IN ('BASE TABLE', 'VIEW')
ORDER BY table_schema, table_name`
}

// ColumnsQuery uses the SQLite-compatible table_info pragma, which folds
// primary-key membership into the column rows.
func (a *Adapter) ColumnsQuery(table, schemaName string) string {
	name := table
	if schemaName != "" {
		name = schemaName + "." + table
	}
	return fmt.Sprintf("PRAGMA table_info(%s)", dialect.QuoteLiteral(name))
}

// IndexesQuery enumerates indexes from the duckdb_indexes() catalog
// function; column membership is recovered from the stored DDL.
func (a *Adapter) IndexesQuery(table, schemaName string) string {
	if schemaName == "" {
		schemaName = a.DefaultSchema()
	}
	return fmt.Sprintf(`SELECT index_name, is_unique, sql
FROM duckdb_indexes()
WHERE schema_name = %s AND table_name = %s
ORDER BY index_name`, dialect.QuoteLiteral(schemaName), dialect.QuoteLiteral(table))
}

// ForeignKeysQuery enumerates FK constraints from the
// duckdb_constraints() catalog function; member and referenced columns
// are recovered from the constraint text.
func (a *Adapter) ForeignKeysQuery(table, schemaName string) string {
	if schemaName == "" {
		schemaName = a.DefaultSchema()
	}
	return fmt.Sprintf(`SELECT constraint_index, constraint_text
FROM duckdb_constraints()
WHERE schema_name = %s AND table_name = %s AND constraint_type = 'FOREIGN KEY'
ORDER BY constraint_index`, dialect.QuoteLiteral(schemaName), dialect.QuoteLiteral(table))
}

// ExplainQuery builds the EXPLAIN statement; both the estimate and the
// analyzed plan come back as one JSON document.
func (a *Adapter) ExplainQuery(query string, analyze bool) string {
	if analyze {
		return "EXPLAIN (ANALYZE, FORMAT JSON) " + query
	}
	return "EXPLAIN (FORMAT JSON) " + query
}

// ParseSchemaResult transforms information_schema.tables rows.
func (a *Adapter) ParseSchemaResult(rows []schema.Row) ([]schema.Table, error) {
	tables := make([]schema.Table, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("table_name")
		if !ok {
			return nil, fmt.Errorf("schema row missing table_name: %v", r)
		}
		schemaName, _ := r.String("table_schema")
		typ := schema.TypeTable
		if tt, _ := r.String("table_type"); tt == "VIEW" {
			typ = schema.TypeView
		}
		tables = append(tables, schema.Table{Schema: schemaName, Name: name, Type: typ})
	}
	return tables, nil
}

// ParseColumnsResult transforms table_info pragma rows.
func (a *Adapter) ParseColumnsResult(rows []schema.Row) ([]schema.Column, error) {
	cols := make([]schema.Column, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("name")
		if !ok {
			return nil, fmt.Errorf("columns row missing name: %v", r)
		}
		typ, _ := r.String("type")
		cols = append(cols, schema.Column{
			Name:       name,
			Type:       typ,
			Nullable:   !r.Bool("notnull"),
			Default:    r.StringPtr("dflt_value"),
			PrimaryKey: r.Bool("pk"),
		})
	}
	return cols, nil
}

// ParseIndexesResult transforms duckdb_indexes() rows; columns come from
// the stored CREATE INDEX text.
func (a *Adapter) ParseIndexesResult(rows []schema.Row) ([]schema.Index, error) {
	idxs := make([]schema.Index, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("index_name")
		if !ok {
			return nil, fmt.Errorf("index row missing index_name: %v", r)
		}
		idx := schema.Index{Name: name, Unique: r.Bool("is_unique")}
		if ddl, ok := r.String("sql"); ok {
			idx.Columns = dialect.IndexDefColumns(ddl)
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

// Matches "FOREIGN KEY (a, b) REFERENCES t(x, y)".
var fkTextRe = regexp.MustCompile(`(?i)FOREIGN KEY\s*\(([^)]+)\)\s*REFERENCES\s+("?[^\s("]+"?)\s*\(([^)]+)\)`)

// ParseForeignKeysResult transforms duckdb_constraints() rows. DuckDB
// does not name FK constraints, so a synthetic name is derived from the
// constraint index. Multi-column constraints yield one entry per column
// pair.
func (a *Adapter) ParseForeignKeysResult(rows []schema.Row) ([]schema.ForeignKey, error) {
	fks := make([]schema.ForeignKey, 0, len(rows))
	for _, r := range rows {
		text, ok := r.String("constraint_text")
		if !ok {
			return nil, fmt.Errorf("constraint row missing constraint_text: %v", r)
		}
		m := fkTextRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		idx, _ := r.Int("constraint_index")
		refTable := strings.Trim(m[2], `"`)
		cols := splitIdentList(m[1])
		refCols := splitIdentList(m[3])
		for i, col := range cols {
			refCol := ""
			if i < len(refCols) {
				refCol = refCols[i]
			}
			fks = append(fks, schema.ForeignKey{
				Name:      fmt.Sprintf("fk_%d", idx),
				Column:    col,
				RefTable:  refTable,
				RefColumn: refCol,
			})
		}
	}
	return fks, nil
}

func splitIdentList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(strings.TrimSpace(p), `"`); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseExplainResult rebuilds the plan tree from the JSON document in
// the explain_value column. DuckDB wraps the root operators in a JSON
// array; analyzed plans use operator_type/operator_cardinality keys
// where estimates use name/extra_info.
func (a *Adapter) ParseExplainResult(rows []schema.Row, analyze bool) (*schema.ExplainNode, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty explain result")
	}
	doc, ok := rows[0].String("explain_value")
	if !ok {
		return nil, fmt.Errorf("explain row missing explain_value column: %v", rows[0])
	}

	var raw any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("parsing explain JSON: %w", err)
	}

	var roots []*schema.ExplainNode
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				roots = append(roots, convertOperator(m))
			}
		}
	case map[string]any:
		roots = append(roots, convertOperator(v))
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no plan operators in explain JSON")
	}
	if len(roots) == 1 {
		return roots[0], nil
	}
	return &schema.ExplainNode{Type: "PLAN", Children: roots}, nil
}

func convertOperator(obj map[string]any) *schema.ExplainNode {
	node := &schema.ExplainNode{}

	if name, ok := obj["operator_type"].(string); ok {
		node.Type = name
	} else if name, ok := obj["name"].(string); ok {
		node.Type = name
	}

	switch extra := obj["extra_info"].(type) {
	case string:
		node.Label = firstLine(extra)
	case map[string]any:
		if tbl, ok := extra["Table"].(string); ok {
			node.Label = tbl
		}
		if est, ok := extra["Estimated Cardinality"].(string); ok {
			if f := parseFloat(est); f != nil {
				node.Rows = f
			}
		}
	}

	if c, ok := obj["operator_cardinality"].(float64); ok {
		node.ActualRows = schema.FloatRef(c)
	}
	if t, ok := obj["operator_timing"].(float64); ok {
		node.ActualTime = schema.FloatRef(t * 1000) // seconds to ms
	}

	if children, ok := obj["children"].([]any); ok {
		for _, item := range children {
			if m, ok := item.(map[string]any); ok {
				node.Children = append(node.Children, convertOperator(m))
			}
		}
	}
	return node
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func parseFloat(s string) *float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return nil
	}
	return schema.FloatRef(f)
}

// Ensure interface compliance.
var (
	_ dialect.Adapter            = (*Adapter)(nil)
	_ dialect.ForeignKeyQuerier  = (*Adapter)(nil)
	_ dialect.DefaultSchemaNamer = (*Adapter)(nil)
)
