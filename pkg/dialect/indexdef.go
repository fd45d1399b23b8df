package dialect

import (
	"regexp"
	"strings"
)

var indexUsingRe = regexp.MustCompile(`(?i)\bUSING\s+(\w+)`)

// IndexDefColumns recovers the indexed columns from a CREATE INDEX
// definition by taking the parenthesized column list and splitting it on
// top-level commas. This is a best-effort textual parse, not a SQL
// parser: expression indexes come back as raw expression text. Engines
// that only expose index DDL (Postgres pg_indexes, sqlite_master,
// duckdb_indexes) share this.
func IndexDefColumns(def string) []string {
	open := strings.Index(def, "(")
	close_ := strings.LastIndex(def, ")")
	if open < 0 || close_ <= open {
		return nil
	}
	inner := def[open+1 : close_]

	var cols []string
	depth := 0
	start := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				cols = appendIndexColumn(cols, inner[start:i])
				start = i + 1
			}
		}
	}
	cols = appendIndexColumn(cols, inner[start:])
	return cols
}

func appendIndexColumn(cols []string, tok string) []string {
	tok = strings.TrimSpace(tok)
	// Strip per-column ordering qualifiers.
	for _, suffix := range []string{" ASC", " DESC", " asc", " desc"} {
		tok = strings.TrimSuffix(tok, suffix)
	}
	tok = strings.Trim(strings.TrimSpace(tok), `"`)
	if tok == "" {
		return cols
	}
	return append(cols, tok)
}

// IndexDefUnique reports whether an index definition declares a unique
// index.
func IndexDefUnique(def string) bool {
	return strings.Contains(strings.ToUpper(def), "UNIQUE INDEX")
}

// IndexDefMethod extracts the access method from a USING clause, empty
// when the definition has none.
func IndexDefMethod(def string) string {
	if m := indexUsingRe.FindStringSubmatch(def); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}
