package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(spans []Span) []string {
	if len(spans) == 0 {
		return nil
	}
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text
	}
	return out
}

func TestSplit_Basic(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "single statement with terminator",
			sql:  "SELECT 1;",
			want: []string{"SELECT 1"},
		},
		{
			name: "single statement without terminator",
			sql:  "SELECT 1",
			want: []string{"SELECT 1"},
		},
		{
			name: "multiple statements",
			sql:  "SELECT 1; SELECT 2; SELECT 3;",
			want: []string{"SELECT 1", "SELECT 2", "SELECT 3"},
		},
		{
			name: "empty input",
			sql:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			sql:  "  \n\t  ",
			want: nil,
		},
		{
			name: "empty statements between semicolons",
			sql:  ";;;SELECT 1;;",
			want: []string{"SELECT 1"},
		},
		{
			name: "trailing statement after terminated one",
			sql:  "INSERT INTO t VALUES (1);\nSELECT * FROM t",
			want: []string{"INSERT INTO t VALUES (1)", "SELECT * FROM t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.sql, Options{})
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestSplit_DelimiterSafety(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		opts Options
		want []string
	}{
		{
			name: "semicolon in single-quoted literal",
			sql:  `SELECT ';' ; SELECT 1;`,
			want: []string{`SELECT ';'`, "SELECT 1"},
		},
		{
			name: "semicolon in double-quoted identifier",
			sql:  `SELECT "a;b" FROM t; SELECT 2;`,
			want: []string{`SELECT "a;b" FROM t`, "SELECT 2"},
		},
		{
			name: "semicolon in line comment",
			sql:  "SELECT 1 -- trailing; not a boundary\n; SELECT 2;",
			want: []string{"SELECT 1 -- trailing; not a boundary", "SELECT 2"},
		},
		{
			name: "semicolon in block comment",
			sql:  "SELECT /* ; */ 1; SELECT 2;",
			want: []string{"SELECT /* ; */ 1", "SELECT 2"},
		},
		{
			name: "semicolon in dollar-quoted body",
			sql:  "DO $$ BEGIN RAISE NOTICE '; '; END $$;",
			opts: Options{DollarQuotes: true},
			want: []string{"DO $$ BEGIN RAISE NOTICE '; '; END $$"},
		},
		{
			name: "semicolon in tagged dollar quote",
			sql:  "CREATE FUNCTION f() RETURNS void AS $body$ SELECT 1; SELECT 2; $body$ LANGUAGE sql;",
			opts: Options{DollarQuotes: true},
			want: []string{"CREATE FUNCTION f() RETURNS void AS $body$ SELECT 1; SELECT 2; $body$ LANGUAGE sql"},
		},
		{
			name: "semicolon in backtick identifier",
			sql:  "SELECT `a;b` FROM t; SELECT 2;",
			opts: Options{BacktickQuotes: true},
			want: []string{"SELECT `a;b` FROM t", "SELECT 2"},
		},
		{
			name: "semicolon in bracket identifier",
			sql:  "SELECT [a;b] FROM t; SELECT 2;",
			opts: Options{BracketQuotes: true},
			want: []string{"SELECT [a;b] FROM t", "SELECT 2"},
		},
		{
			name: "backticks ignored unless enabled",
			sql:  "SELECT `a;b;",
			want: []string{"SELECT `a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.sql, tt.opts)
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestSplit_EscapedQuotes(t *testing.T) {
	spans := Split(`SELECT 'it''s';`, Options{})
	require.Len(t, spans, 1)
	assert.Equal(t, `SELECT 'it''s'`, spans[0].Text)

	spans = Split(`SELECT "he said ""hi; bye""";`, Options{})
	require.Len(t, spans, 1)

	// MySQL mode: backslash escapes a quote inside a string.
	spans = Split(`SELECT 'don\'t; stop';`, Options{BackslashEscapes: true})
	require.Len(t, spans, 1)
	assert.Equal(t, `SELECT 'don\'t; stop'`, spans[0].Text)

	// Without backslash escapes the same input terminates early.
	spans = Split(`SELECT 'don\'t; stop';`, Options{})
	assert.Len(t, spans, 2)
}

func TestSplit_CommentOnlyStatementsDropped(t *testing.T) {
	spans := Split("-- just a comment\n;\nSELECT 1;", Options{})
	require.Len(t, spans, 1)
	assert.Equal(t, "SELECT 1", spans[0].Text)
	assert.Equal(t, 0, spans[0].Index)

	spans = Split("/* block */;\n-- line\n;", Options{})
	assert.Empty(t, spans)
}

func TestSplit_Offsets(t *testing.T) {
	sql := "SELECT 1; SELECT 2;"
	spans := Split(sql, Options{})
	require.Len(t, spans, 2)

	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 8, spans[0].End) // offset of the first semicolon
	assert.Equal(t, byte(';'), sql[spans[0].End])

	assert.Equal(t, 9, spans[1].Start) // right after the first delimiter
	assert.Equal(t, 18, spans[1].End)
	assert.Equal(t, byte(';'), sql[spans[1].End])

	// Unterminated trailing statement ends at the last byte of input.
	sql = "SELECT 1; SELECT 2"
	spans = Split(sql, Options{})
	require.Len(t, spans, 2)
	assert.Equal(t, len(sql)-1, spans[1].End)
}

func TestSplit_OffsetsPreservedAfterFiltering(t *testing.T) {
	sql := "-- header\n;SELECT 1;"
	spans := Split(sql, Options{})
	require.Len(t, spans, 1)

	// The surviving span is re-indexed to 0 but keeps its buffer offsets.
	assert.Equal(t, 0, spans[0].Index)
	assert.Equal(t, 11, spans[0].Start)
	assert.Equal(t, byte('S'), sql[spans[0].Start])
}

func TestSplit_SpansStrictlyOrdered(t *testing.T) {
	sql := "SELECT 1;\n\nSELECT ';';\n-- c\n;\nSELECT 3"
	spans := Split(sql, Options{})
	require.NotEmpty(t, spans)
	for i := 1; i < len(spans); i++ {
		assert.Greater(t, spans[i].Start, spans[i-1].Start, "spans must be ordered by Start")
		assert.Greater(t, spans[i].Start, spans[i-1].End, "spans must not overlap")
	}
	for i, s := range spans {
		assert.Equal(t, i, s.Index)
	}
}

func TestSplit_TextRejoinsToContent(t *testing.T) {
	sql := "CREATE TABLE t (id INT);\nINSERT INTO t VALUES (1);\nSELECT * FROM t;"
	spans := Split(sql, Options{})
	require.Len(t, spans, 3)

	joined := strings.Join(texts(spans), ";\n") + ";"
	assert.Equal(t, sql, joined)
}

func TestSplit_UnterminatedConstructs(t *testing.T) {
	// An open quote swallows the rest of the buffer into one statement.
	spans := Split("SELECT 'unterminated; SELECT 2;", Options{})
	require.Len(t, spans, 1)
	assert.Equal(t, "SELECT 'unterminated; SELECT 2;", spans[0].Text)

	spans = Split("SELECT 1 /* open comment; SELECT 2;", Options{})
	require.Len(t, spans, 1)

	spans = Split("DO $$ no closer; SELECT 2;", Options{DollarQuotes: true})
	require.Len(t, spans, 1)
}

func TestSplit_DollarQuoteEdgeCases(t *testing.T) {
	// Bind parameters are not dollar-quote openers.
	spans := Split("SELECT * FROM t WHERE id = $1; SELECT 2;", Options{DollarQuotes: true})
	assert.Len(t, spans, 2)

	// The closing tag must match exactly, including the empty tag.
	spans = Split("SELECT $a$ $b$ ; $a$;", Options{DollarQuotes: true})
	require.Len(t, spans, 1)
	assert.Equal(t, "SELECT $a$ $b$ ; $a$", spans[0].Text)
}

func TestAtOffset(t *testing.T) {
	sql := "SELECT 1; SELECT 2;"

	second, ok := AtOffset(sql, 10, Options{}) // start of "SELECT 2"
	require.True(t, ok)
	assert.Equal(t, "SELECT 2", second.Text)

	first, ok := AtOffset(sql, 0, Options{})
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", first.Text)

	// Offset past every span falls back to the first span.
	fallback, ok := AtOffset(sql, 500, Options{})
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", fallback.Text)

	_, ok = AtOffset("", 0, Options{})
	assert.False(t, ok)

	_, ok = AtOffset("-- only a comment", 3, Options{})
	assert.False(t, ok)
}

func TestComplete(t *testing.T) {
	opts := Options{DollarQuotes: true}

	assert.True(t, Complete("SELECT 1;", opts))
	assert.True(t, Complete("", opts))

	// End of input terminates a line comment, with or without a trailing
	// newline; a trailing block comment must be closed explicitly.
	assert.True(t, Complete("SELECT 1; -- done", opts))
	assert.True(t, Complete("SELECT 1; -- done\n", opts))
	assert.True(t, Complete("SELECT 1; /* done */", opts))
	assert.False(t, Complete("SELECT 1; /* done", opts))
	assert.False(t, Complete("SELECT 1; -- done\nSELECT 2", opts))

	assert.False(t, Complete("SELECT 1", opts))
	assert.False(t, Complete("SELECT ';", opts))
	assert.False(t, Complete("DO $$ BEGIN", opts))
	assert.False(t, Complete("SELECT 1; SELECT", opts))
}

func BenchmarkSplit(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("INSERT INTO logs (msg) VALUES ('entry; with -- tricky /* content */');\n")
	}
	sql := sb.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Split(sql, Options{DollarQuotes: true})
	}
}
