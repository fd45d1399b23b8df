// Package schema defines the dialect-independent model of database
// structure produced by the dialect adapters in pkg/dialects.
//
// All values are plain data built fresh from each introspection call;
// nothing in this package holds references to connections or adapters.
package schema

// TableType distinguishes base tables from views.
type TableType string

// Table types.
const (
	TypeTable TableType = "table"
	TypeView  TableType = "view"
)

// Table represents one table or view discovered by introspection.
// Columns and Indexes are populated by separate adapter calls and are
// nil until the caller fills them in.
type Table struct {
	Schema  string    `json:"schema,omitempty"`
	Name    string    `json:"name"`
	Type    TableType `json:"type"`
	Columns []Column  `json:"columns,omitempty"`
	Indexes []Index   `json:"indexes,omitempty"`
}

// QualifiedName returns schema.name, or just the name when the engine
// has no schema concept (SQLite).
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column represents one column of a table, in ordinal order.
type Column struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Nullable   bool           `json:"nullable"`
	Default    *string        `json:"default,omitempty"` // nil when the column has no default expression
	PrimaryKey bool           `json:"primary_key"`
	ForeignKey bool           `json:"foreign_key"`
	References *ForeignKeyRef `json:"references,omitempty"` // nil unless ForeignKey is true
}

// ForeignKeyRef identifies the column a foreign key points at.
type ForeignKeyRef struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Index represents one index defined on a table.
//
// Columns is a best-effort textual extraction for engines that only
// expose the index DDL (Postgres, SQLite, DuckDB); expression indexes
// come back as raw expression text rather than column names.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns,omitempty"`
	Unique  bool     `json:"unique"`
	Type    string   `json:"type,omitempty"` // btree, hash, ... empty when the engine does not report it
}

// ForeignKey represents one foreign-key constraint, used by engines
// that report FK membership separately from the columns query.
type ForeignKey struct {
	Name      string `json:"name"`
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
}
