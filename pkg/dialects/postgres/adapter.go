// Package postgres provides the PostgreSQL dialect adapter.
package postgres

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/schema"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// Adapter implements dialect.Adapter for PostgreSQL.
type Adapter struct {
	logger *slog.Logger
}

// New creates a PostgreSQL adapter. If logger is nil, a discard logger
// is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Name returns the dialect identifier.
func (a *Adapter) Name() string { return "postgres" }

// DefaultSchema returns the conventional default namespace.
func (a *Adapter) DefaultSchema() string { return "public" }

// Options returns the Postgres lexical extensions for the splitter.
func (a *Adapter) Options() statement.Options {
	return statement.Options{DollarQuotes: true}
}

func (a *Adapter) schemaOrDefault(schemaName string) string {
	if schemaName == "" {
		return "public"
	}
	return schemaName
}

// SchemaQuery enumerates user tables and views with their schema.
func (a *Adapter) SchemaQuery() string {
	return `SELECT table_schema, table_name, table_type
FROM information_schema.tables
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
  AND table_type IN ('BASE TABLE', 'VIEW')
ORDER BY table_schema, table_name`
}

// ColumnsQuery enumerates the ordinal-ordered columns of one table with
// nullability, default expression, and key membership folded in via the
// constraint catalog.
func (a *Adapter) ColumnsQuery(table, schemaName string) string {
	s := dialect.QuoteLiteral(a.schemaOrDefault(schemaName))
	t := dialect.QuoteLiteral(table)
	return fmt.Sprintf(`SELECT
    c.column_name,
    c.data_type,
    c.is_nullable,
    c.column_default,
    EXISTS (
        SELECT 1
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
          ON tc.constraint_name = kcu.constraint_name
         AND tc.table_schema = kcu.table_schema
        WHERE tc.constraint_type = 'PRIMARY KEY'
          AND tc.table_schema = c.table_schema
          AND tc.table_name = c.table_name
          AND kcu.column_name = c.column_name
    ) AS is_primary_key,
    fk.foreign_table_name,
    fk.foreign_column_name
FROM information_schema.columns c
LEFT JOIN (
    SELECT kcu.column_name,
           ccu.table_name  AS foreign_table_name,
           ccu.column_name AS foreign_column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
      ON tc.constraint_name = kcu.constraint_name
    JOIN information_schema.constraint_column_usage ccu
      ON tc.constraint_name = ccu.constraint_name
    WHERE tc.constraint_type = 'FOREIGN KEY'
      AND tc.table_schema = %[1]s
      AND tc.table_name = %[2]s
) fk ON fk.column_name = c.column_name
WHERE c.table_schema = %[1]s AND c.table_name = %[2]s
ORDER BY c.ordinal_position`, s, t)
}

// IndexesQuery enumerates indexes with their DDL; the column list is
// recovered textually from indexdef.
func (a *Adapter) IndexesQuery(table, schemaName string) string {
	return fmt.Sprintf(`SELECT indexname, indexdef
FROM pg_indexes
WHERE schemaname = %s AND tablename = %s
ORDER BY indexname`,
		dialect.QuoteLiteral(a.schemaOrDefault(schemaName)),
		dialect.QuoteLiteral(table))
}

// ExplainQuery builds the EXPLAIN statement; analyze executes the query
// to gather actual statistics.
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

// ParseColumnsResult transforms ColumnsQuery rows.
func (a *Adapter) ParseColumnsResult(rows []schema.Row) ([]schema.Column, error) {
	cols := make([]schema.Column, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("column_name")
		if !ok {
			return nil, fmt.Errorf("columns row missing column_name: %v", r)
		}
		typ, _ := r.String("data_type")
		col := schema.Column{
			Name:       name,
			Type:       typ,
			Nullable:   r.Bool("is_nullable"),
			Default:    r.StringPtr("column_default"),
			PrimaryKey: r.Bool("is_primary_key"),
		}
		if ft, ok := r.String("foreign_table_name"); ok {
			fc, _ := r.String("foreign_column_name")
			col.ForeignKey = true
			col.References = &schema.ForeignKeyRef{Table: ft, Column: fc}
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// ParseIndexesResult transforms pg_indexes rows. Expression indexes are
// reported with raw expression text as column entries; that limitation
// is part of the textual indexdef parse.
func (a *Adapter) ParseIndexesResult(rows []schema.Row) ([]schema.Index, error) {
	idxs := make([]schema.Index, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("indexname")
		if !ok {
			return nil, fmt.Errorf("index row missing indexname: %v", r)
		}
		def, _ := r.String("indexdef")
		idxs = append(idxs, schema.Index{
			Name:    name,
			Columns: dialect.IndexDefColumns(def),
			Unique:  dialect.IndexDefUnique(def),
			Type:    dialect.IndexDefMethod(def),
		})
	}
	return idxs, nil
}

// pgPlan mirrors the shape of one node in EXPLAIN (FORMAT JSON) output.
type pgPlan struct {
	NodeType        string   `json:"Node Type"`
	RelationName    string   `json:"Relation Name"`
	IndexName       string   `json:"Index Name"`
	Alias           string   `json:"Alias"`
	TotalCost       *float64 `json:"Total Cost"`
	PlanRows        *float64 `json:"Plan Rows"`
	ActualTotalTime *float64 `json:"Actual Total Time"`
	ActualRows      *float64 `json:"Actual Rows"`
	Plans           []pgPlan `json:"Plans"`
}

// ParseExplainResult reconstructs the plan tree from the single JSON
// document Postgres returns under the QUERY PLAN column.
func (a *Adapter) ParseExplainResult(rows []schema.Row, analyze bool) (*schema.ExplainNode, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty explain result")
	}
	doc, ok := rows[0].String("QUERY PLAN")
	if !ok {
		return nil, fmt.Errorf("explain row missing QUERY PLAN column: %v", rows[0])
	}

	var wrapper []struct {
		Plan pgPlan `json:"Plan"`
	}
	if err := json.Unmarshal([]byte(doc), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode explain JSON: %w", err)
	}
	if len(wrapper) == 0 {
		return nil, fmt.Errorf("explain JSON contains no plan")
	}
	return a.convertPlan(wrapper[0].Plan, analyze), nil
}

func (a *Adapter) convertPlan(p pgPlan, analyze bool) *schema.ExplainNode {
	node := &schema.ExplainNode{
		Type:  p.NodeType,
		Label: planLabel(p),
		Cost:  p.TotalCost,
		Rows:  p.PlanRows,
	}
	if analyze {
		node.ActualTime = p.ActualTotalTime
		node.ActualRows = p.ActualRows
	}
	for _, child := range p.Plans {
		node.Children = append(node.Children, a.convertPlan(child, analyze))
	}
	return node
}

func planLabel(p pgPlan) string {
	switch {
	case p.RelationName != "" && p.Alias != "" && p.Alias != p.RelationName:
		return p.RelationName + " AS " + p.Alias
	case p.RelationName != "":
		return p.RelationName
	case p.IndexName != "":
		return p.IndexName
	}
	return ""
}

// Ensure interface compliance.
var _ dialect.Adapter = (*Adapter)(nil)
var _ dialect.DefaultSchemaNamer = (*Adapter)(nil)
