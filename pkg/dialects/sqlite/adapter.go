// Package sqlite provides the SQLite dialect adapter.
package sqlite

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/schema"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// Adapter implements dialect.Adapter for SQLite.
//
// SQLite has no constraint catalog to join against, so foreign-key
// membership comes from a separate PRAGMA query; the adapter implements
// dialect.ForeignKeyQuerier for that.
type Adapter struct {
	logger *slog.Logger
}

// New creates a SQLite adapter. If logger is nil, a discard logger is
// used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Name returns the dialect identifier.
func (a *Adapter) Name() string { return "sqlite" }

// DefaultSchema returns the conventional default namespace.
func (a *Adapter) DefaultSchema() string { return "main" }

// Options returns the SQLite lexical extensions: it accepts both MySQL
// backticks and T-SQL brackets for identifiers.
func (a *Adapter) Options() statement.Options {
	return statement.Options{BacktickQuotes: true, BracketQuotes: true}
}

// SchemaQuery enumerates tables and views from sqlite_master, skipping
// the engine's internal tables.
func (a *Adapter) SchemaQuery() string {
	return `SELECT name, type
FROM sqlite_master
WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
ORDER BY name`
}

// ColumnsQuery enumerates columns via PRAGMA table_info. The schema
// argument is ignored: SQLite attaches databases rather than nesting
// schemas.
func (a *Adapter) ColumnsQuery(table, _ string) string {
	return fmt.Sprintf("PRAGMA table_info(%s)", dialect.QuoteIdent(table))
}

// IndexesQuery enumerates named indexes with their DDL. Auto-created
// indexes backing UNIQUE and PRIMARY KEY constraints have NULL sql and
// are tolerated by the parser.
func (a *Adapter) IndexesQuery(table, _ string) string {
	return fmt.Sprintf(`SELECT name, sql
FROM sqlite_master
WHERE type = 'index' AND tbl_name = %s
ORDER BY name`, dialect.QuoteLiteral(table))
}

// ForeignKeysQuery enumerates FK constraints via PRAGMA.
func (a *Adapter) ForeignKeysQuery(table, _ string) string {
	return fmt.Sprintf("PRAGMA foreign_key_list(%s)", dialect.QuoteIdent(table))
}

// ExplainQuery builds EXPLAIN QUERY PLAN. SQLite has no analyze mode;
// the plain plan is returned either way.
func (a *Adapter) ExplainQuery(query string, _ bool) string {
	return "EXPLAIN QUERY PLAN " + query
}

// ParseSchemaResult transforms sqlite_master rows.
func (a *Adapter) ParseSchemaResult(rows []schema.Row) ([]schema.Table, error) {
	tables := make([]schema.Table, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("name")
		if !ok {
			return nil, fmt.Errorf("schema row missing name: %v", r)
		}
		typ := schema.TypeTable
		if tt, _ := r.String("type"); tt == "view" {
			typ = schema.TypeView
		}
		tables = append(tables, schema.Table{Schema: "main", Name: name, Type: typ})
	}
	return tables, nil
}

// ParseColumnsResult transforms PRAGMA table_info rows (cid, name, type,
// notnull, dflt_value, pk). FK membership is not available here; callers
// fold in ParseForeignKeysResult output.
func (a *Adapter) ParseColumnsResult(rows []schema.Row) ([]schema.Column, error) {
	cols := make([]schema.Column, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("name")
		if !ok {
			return nil, fmt.Errorf("table_info row missing name: %v", r)
		}
		typ, _ := r.String("type")
		pk, _ := r.Int("pk")
		cols = append(cols, schema.Column{
			Name:       name,
			Type:       typ,
			Nullable:   !r.Bool("notnull"),
			Default:    r.StringPtr("dflt_value"),
			PrimaryKey: pk > 0,
		})
	}
	return cols, nil
}

// ParseIndexesResult transforms sqlite_master index rows. The column
// list is recovered textually from the CREATE INDEX statement; automatic
// constraint indexes carry no DDL and are reported unique with no
// columns.
func (a *Adapter) ParseIndexesResult(rows []schema.Row) ([]schema.Index, error) {
	idxs := make([]schema.Index, 0, len(rows))
	for _, r := range rows {
		name, ok := r.String("name")
		if !ok {
			return nil, fmt.Errorf("index row missing name: %v", r)
		}
		idx := schema.Index{Name: name}
		if def, ok := r.String("sql"); ok {
			idx.Columns = dialect.IndexDefColumns(def)
			idx.Unique = dialect.IndexDefUnique(def)
		} else if strings.HasPrefix(name, "sqlite_autoindex_") {
			idx.Unique = true
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

// ParseForeignKeysResult transforms PRAGMA foreign_key_list rows (id,
// seq, table, from, to). SQLite does not name its FK constraints, so a
// synthetic name is derived from the constraint id.
func (a *Adapter) ParseForeignKeysResult(rows []schema.Row) ([]schema.ForeignKey, error) {
	fks := make([]schema.ForeignKey, 0, len(rows))
	for _, r := range rows {
		from, ok := r.String("from")
		if !ok {
			return nil, fmt.Errorf("foreign_key_list row missing from: %v", r)
		}
		id, _ := r.Int("id")
		refTable, _ := r.String("table")
		refColumn, _ := r.String("to")
		fks = append(fks, schema.ForeignKey{
			Name:      fmt.Sprintf("fk_%d", id),
			Column:    from,
			RefTable:  refTable,
			RefColumn: refColumn,
		})
	}
	return fks, nil
}

// ParseExplainResult rebuilds the EXPLAIN QUERY PLAN rows (id, parent,
// detail) into a tree. The synthetic root mirrors the QUERY PLAN header
// the sqlite3 shell prints.
func (a *Adapter) ParseExplainResult(rows []schema.Row, _ bool) (*schema.ExplainNode, error) {
	root := &schema.ExplainNode{Type: "QUERY PLAN"}
	if len(rows) == 0 {
		return root, nil
	}

	nodes := make(map[int64]*schema.ExplainNode, len(rows))
	type link struct {
		id, parent int64
	}
	links := make([]link, 0, len(rows))

	for _, r := range rows {
		id, ok := r.Int("id")
		if !ok {
			return nil, fmt.Errorf("explain row missing id: %v", r)
		}
		parent, _ := r.Int("parent")
		detail, _ := r.String("detail")
		typ, label := splitDetail(detail)
		nodes[id] = &schema.ExplainNode{Type: typ, Label: label}
		links = append(links, link{id: id, parent: parent})
	}

	// Row order is already a pre-order walk; attach children in order.
	sort.SliceStable(links, func(i, j int) bool { return links[i].id < links[j].id })
	for _, l := range links {
		if p, ok := nodes[l.parent]; ok && l.parent != l.id {
			p.Children = append(p.Children, nodes[l.id])
		} else {
			root.Children = append(root.Children, nodes[l.id])
		}
	}
	return root, nil
}

// splitDetail separates the operator keyword from the rest of an EQP
// detail line, e.g. "SEARCH users USING INDEX idx (org_id=?)".
func splitDetail(detail string) (typ, label string) {
	detail = strings.TrimSpace(detail)
	if i := strings.IndexByte(detail, ' '); i > 0 {
		return detail[:i], strings.TrimSpace(detail[i+1:])
	}
	return detail, ""
}

// Ensure interface compliance.
var _ dialect.Adapter = (*Adapter)(nil)
var _ dialect.ForeignKeyQuerier = (*Adapter)(nil)
var _ dialect.DefaultSchemaNamer = (*Adapter)(nil)
