// Package dialect defines the contract every database dialect adapter
// must satisfy, and the registry that maps dialect identifiers to
// adapter instances.
//
// Adapters generate introspection and EXPLAIN SQL as plain strings; the
// strings are fed verbatim to an external query-execution channel, and
// the raw rows that come back are handed into the adapter's parse
// methods to produce the canonical model in pkg/schema. Adapters are
// stateless and safe for concurrent use.
//
// Concrete implementations live in pkg/dialects subdirectories and
// register themselves in their init() functions.
package dialect

import (
	"github.com/seaquel-labs/sqlkit/pkg/schema"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// Adapter is the capability set one database engine exposes to the
// editor and schema-browsing surfaces.
//
// The SQL-generating methods are pure: for identical input they return
// identical SQL, so UI lists stay stable across calls. Parse methods
// must tolerate missing optional columns (an absent default becomes a
// nil pointer, not an error); rows missing required fields indicate a
// broken upstream query and may surface as a parse error.
type Adapter interface {
	// Name returns the dialect identifier this adapter registered under.
	Name() string

	// Options returns the lexical extensions the statement splitter
	// should honor for this dialect.
	Options() statement.Options

	// SchemaQuery returns SQL enumerating base tables and views with
	// their owning schema, ordered by schema then name.
	SchemaQuery() string

	// ColumnsQuery returns SQL enumerating the ordinal-ordered columns
	// of one table, including nullability, default expression, and
	// primary/foreign-key membership where the engine can fold those in.
	ColumnsQuery(table, schemaName string) string

	// IndexesQuery returns SQL enumerating the indexes on one table.
	IndexesQuery(table, schemaName string) string

	// ExplainQuery wraps query in the dialect's EXPLAIN form. analyze
	// requests actual execution statistics where the engine supports
	// them; engines without the capability return the plain plan query.
	ExplainQuery(query string, analyze bool) string

	// ParseSchemaResult transforms SchemaQuery rows into tables. Columns
	// and Indexes of the returned tables are left nil.
	ParseSchemaResult(rows []schema.Row) ([]schema.Table, error)

	// ParseColumnsResult transforms ColumnsQuery rows into columns.
	ParseColumnsResult(rows []schema.Row) ([]schema.Column, error)

	// ParseIndexesResult transforms IndexesQuery rows into indexes.
	ParseIndexesResult(rows []schema.Row) ([]schema.Index, error)

	// ParseExplainResult reconstructs the plan tree from the dialect's
	// raw EXPLAIN output shape (JSON, tabular, or text).
	ParseExplainResult(rows []schema.Row, analyze bool) (*schema.ExplainNode, error)
}

// ForeignKeyQuerier is implemented by adapters whose engine cannot fold
// foreign-key membership into the columns query (SQLite, DuckDB). For
// the rest, ParseColumnsResult already marks FK columns.
type ForeignKeyQuerier interface {
	// ForeignKeysQuery returns SQL enumerating the FK constraints of one
	// table.
	ForeignKeysQuery(table, schemaName string) string

	// ParseForeignKeysResult transforms ForeignKeysQuery rows.
	ParseForeignKeysResult(rows []schema.Row) ([]schema.ForeignKey, error)
}

// DefaultSchemaNamer is implemented by adapters with a conventional
// default namespace (public, main, dbo). Callers use it to qualify bare
// table names.
type DefaultSchemaNamer interface {
	DefaultSchema() string
}
