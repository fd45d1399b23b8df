// Package mssql provides the SQL Server dialect adapter.
package mssql

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/schema"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// Adapter implements dialect.Adapter for SQL Server.
type Adapter struct {
	logger *slog.Logger
}

// New creates a SQL Server adapter. If logger is nil, a discard logger
// is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Name returns the dialect identifier.
func (a *Adapter) Name() string { return "mssql" }

// DefaultSchema returns the schema used when none is given.
func (a *Adapter) DefaultSchema() string { return "dbo" }

// Options returns the T-SQL lexical extensions: bracketed identifiers.
func (a *Adapter) Options() statement.Options {
	return statement.Options{BracketQuotes: true}
}

func (a *Adapter) schemaLiteral(schemaName string) string {
	if schemaName == "" {
		schemaName = a.DefaultSchema()
	}
	return dialect.QuoteLiteral(schemaName)
}

// SchemaQuery enumerates user tables and views from the sys catalog.
func (a *Adapter) SchemaQuery() string {
	return `SELECT s.name AS schema_name, o.name AS table_name, o.type AS object_type
FROM sys.objects o
JOIN sys.schemas s ON s.schema_id = o.schema_id
WHERE o.type IN ('U', 'V')
ORDER BY s.name, o.name`
}

// ColumnsQuery enumerates columns with key membership resolved from the
// sys catalog: primary keys through index membership, foreign keys
// through sys.foreign_key_columns.
func (a *Adapter) ColumnsQuery(table, schemaName string) string {
	return fmt.Sprintf(`SELECT
    c.name AS column_name,
    t.name AS data_type,
    c.is_nullable,
    dc.definition AS column_default,
    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key,
    rt.name AS foreign_table_name,
    rc.name AS foreign_column_name
FROM sys.columns c
JOIN sys.objects o ON o.object_id = c.object_id
JOIN sys.schemas s ON s.schema_id = o.schema_id
JOIN sys.types t ON t.user_type_id = c.user_type_id
LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
LEFT JOIN (
    SELECT ic.object_id, ic.column_id
    FROM sys.index_columns ic
    JOIN sys.indexes i ON i.object_id = ic.object_id AND i.index_id = ic.index_id
    WHERE i.is_primary_key = 1
) pk ON pk.object_id = c.object_id AND pk.column_id = c.column_id
LEFT JOIN sys.foreign_key_columns fkc
  ON fkc.parent_object_id = c.object_id AND fkc.parent_column_id = c.column_id
LEFT JOIN sys.objects rt ON rt.object_id = fkc.referenced_object_id
LEFT JOIN sys.columns rc
  ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
WHERE s.name = %[1]s AND o.name = %[2]s
ORDER BY c.column_id`, a.schemaLiteral(schemaName), dialect.QuoteLiteral(table))
}

// IndexesQuery enumerates index member rows; ParseIndexesResult groups
// them per index.
func (a *Adapter) IndexesQuery(table, schemaName string) string {
	return fmt.Sprintf(`SELECT
    i.name AS index_name,
    col.name AS column_name,
    i.is_unique,
    i.type_desc,
    ic.key_ordinal
FROM sys.indexes i
JOIN sys.objects o ON o.object_id = i.object_id
JOIN sys.schemas s ON s.schema_id = o.schema_id
JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
WHERE s.name = %[1]s AND o.name = %[2]s AND i.name IS NOT NULL
ORDER BY i.name, ic.key_ordinal`, a.schemaLiteral(schemaName), dialect.QuoteLiteral(table))
}

// ForeignKeysQuery enumerates foreign-key member columns with their
// referenced table and column.
func (a *Adapter) ForeignKeysQuery(table, schemaName string) string {
	return fmt.Sprintf(`SELECT
    fk.name AS constraint_name,
    pc.name AS column_name,
    rt.name AS referenced_table,
    rc.name AS referenced_column
FROM sys.foreign_keys fk
JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
JOIN sys.objects o ON o.object_id = fk.parent_object_id
JOIN sys.schemas s ON s.schema_id = o.schema_id
JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
JOIN sys.objects rt ON rt.object_id = fkc.referenced_object_id
JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
WHERE s.name = %[1]s AND o.name = %[2]s
ORDER BY fk.name, fkc.constraint_column_id`, a.schemaLiteral(schemaName), dialect.QuoteLiteral(table))
}

// ExplainQuery builds the plan-capture script. SQL Server has no EXPLAIN
// statement; the session setting makes the server return plan rows
// instead of (SHOWPLAN_ALL) or alongside (STATISTICS PROFILE) the result
// set. The whole script must run on one connection.
func (a *Adapter) ExplainQuery(query string, analyze bool) string {
	mode := "SHOWPLAN_ALL"
	if analyze {
		mode = "STATISTICS PROFILE"
	}
	return fmt.Sprintf("SET %[1]s ON;\n%[2]s;\nSET %[1]s OFF;", mode, query)
}

// ParseSchemaResult transforms sys.objects rows.
func (a *Adapter) ParseSchemaResult(rows []schema.Row) ([]schema.Table, error) {
	tables := make([]schema.Table, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("table_name")
		if !ok {
			return nil, fmt.Errorf("schema row missing table_name: %v", r)
		}
		schemaName, _ := r.String("schema_name")
		typ := schema.TypeTable
		if ot, _ := r.String("object_type"); ot == "V" || ot == "V " {
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

// ParseIndexesResult groups index member rows into one index per name.
func (a *Adapter) ParseIndexesResult(rows []schema.Row) ([]schema.Index, error) {
	var order []string
	byName := make(map[string]*schema.Index)

	for _, r := range rows {
		name, ok := r.String("index_name")
		if !ok {
			return nil, fmt.Errorf("index row missing index_name: %v", r)
		}
		idx, seen := byName[name]
		if !seen {
			typ, _ := r.String("type_desc")
			idx = &schema.Index{Name: name, Unique: r.Bool("is_unique"), Type: typ}
			byName[name] = idx
			order = append(order, name)
		}
		if col, ok := r.String("column_name"); ok {
			idx.Columns = append(idx.Columns, col)
		}
	}

	idxs := make([]schema.Index, 0, len(order))
	for _, name := range order {
		idxs = append(idxs, *byName[name])
	}
	return idxs, nil
}

// ParseForeignKeysResult transforms ForeignKeysQuery rows.
func (a *Adapter) ParseForeignKeysResult(rows []schema.Row) ([]schema.ForeignKey, error) {
	fks := make([]schema.ForeignKey, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("constraint_name")
		if !ok {
			return nil, fmt.Errorf("foreign key row missing constraint_name: %v", r)
		}
		col, _ := r.String("column_name")
		refTable, _ := r.String("referenced_table")
		refCol, _ := r.String("referenced_column")
		fks = append(fks, schema.ForeignKey{Name: name, Column: col, RefTable: refTable, RefColumn: refCol})
	}
	return fks, nil
}

// ParseExplainResult rebuilds the plan tree from SHOWPLAN_ALL or
// STATISTICS PROFILE rows, which carry explicit NodeId/Parent links.
// Both shapes share the showplan columns; the profile rows additionally
// carry actual row counts.
func (a *Adapter) ParseExplainResult(rows []schema.Row, analyze bool) (*schema.ExplainNode, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty explain result")
	}

	type entry struct {
		id, parent int64
		node       *schema.ExplainNode
	}
	var entries []entry

	for _, r := range rows {
		id, ok := r.Int("NodeId")
		if !ok {
			// Statement framing rows without a node id are skipped.
			continue
		}
		parent, _ := r.Int("Parent")

		node := &schema.ExplainNode{
			Cost: r.FloatPtr("TotalSubtreeCost"),
			Rows: r.FloatPtr("EstimateRows"),
		}
		if op, ok := r.String("PhysicalOp"); ok {
			node.Type = op
		} else if stmt, ok := r.String("StmtText"); ok {
			node.Type = stmt
		}
		node.Label, _ = r.String("Argument")
		if analyze {
			node.ActualRows = r.FloatPtr("Rows")
		}
		entries = append(entries, entry{id: id, parent: parent, node: node})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no plan nodes in explain result")
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	byID := make(map[int64]*schema.ExplainNode, len(entries))
	for _, e := range entries {
		byID[e.id] = e.node
	}

	root := entries[0].node
	for _, e := range entries[1:] {
		if parent, ok := byID[e.parent]; ok && parent != e.node {
			parent.Children = append(parent.Children, e.node)
		} else {
			root.Children = append(root.Children, e.node)
		}
	}
	return root, nil
}

// Ensure interface compliance.
var (
	_ dialect.Adapter            = (*Adapter)(nil)
	_ dialect.ForeignKeyQuerier  = (*Adapter)(nil)
	_ dialect.DefaultSchemaNamer = (*Adapter)(nil)
)
