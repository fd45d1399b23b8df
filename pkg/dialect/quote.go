package dialect

import "strings"

// Adapters embed table and schema names into introspection SQL as
// literals, because the generated strings travel to the execution
// channel without a parameter list. These helpers keep the embedding
// safe for the quoting style each engine family uses.

// QuoteLiteral renders s as a single-quoted SQL string literal, doubling
// embedded quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdent renders s as a double-quoted identifier, doubling embedded
// quotes. Used by the Postgres family and DuckDB.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteIdentBacktick renders s as a backtick-quoted identifier for the
// MySQL family.
func QuoteIdentBacktick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// QuoteIdentBracket renders s as a bracket-quoted identifier for T-SQL.
func QuoteIdentBracket(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}
