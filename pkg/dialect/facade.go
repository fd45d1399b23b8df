package dialect

import "github.com/seaquel-labs/sqlkit/pkg/statement"

// SplitStatements splits a script into statement spans using the lexical
// extensions of the named dialect. An unregistered dialect falls back to
// ANSI lexing rather than failing: the segmenter must stay usable even
// when schema introspection for the engine is not implemented yet.
func SplitStatements(sql, dialectName string) []statement.Span {
	return statement.Split(sql, optionsFor(dialectName))
}

// StatementAt resolves the statement under the cursor for the named
// dialect. ok is false when the buffer contains no statements.
func StatementAt(sql string, offset int, dialectName string) (statement.Span, bool) {
	return statement.AtOffset(sql, offset, optionsFor(dialectName))
}

func optionsFor(dialectName string) statement.Options {
	if a, err := Get(dialectName); err == nil {
		return a.Options()
	}
	return statement.Options{}
}
