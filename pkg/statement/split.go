// Package statement splits raw SQL text into individually executable
// statements while tracking exact source offsets.
//
// The splitter is a single-pass byte state machine. Its one correctness
// property is that a semicolon inside a string literal, quoted
// identifier, comment, or dollar-quoted block never produces a statement
// boundary. It never fails on malformed input: an unterminated construct
// simply consumes the rest of the buffer, which keeps the editor usable
// mid-edit.
package statement

import "strings"

// Span is one parsed statement plus its offsets into the original input.
//
// Start is the offset right after the previous statement delimiter (0 for
// the first span); End is the offset of the terminating semicolon, or the
// last byte of input for an unterminated trailing statement. Text is the
// statement with surrounding whitespace trimmed. Spans are produced in
// strictly increasing Start order and never overlap.
type Span struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Options selects the dialect-specific lexical extensions the scanner
// honors. The zero value is ANSI behavior: single/double quotes with
// doubled-quote escapes, line and block comments.
type Options struct {
	// DollarQuotes enables Postgres $tag$ ... $tag$ quoting.
	DollarQuotes bool
	// BacktickQuotes enables MySQL `identifier` quoting.
	BacktickQuotes bool
	// BracketQuotes enables T-SQL [identifier] quoting.
	BracketQuotes bool
	// BackslashEscapes makes a backslash escape the next character inside
	// single- and double-quoted strings (MySQL default mode).
	BackslashEscapes bool
}

// lexical states of the scanner
type state int

const (
	stNormal state = iota
	stSingleQuote
	stDoubleQuote
	stLineComment
	stBlockComment
	stDollarQuote
	stBacktick
	stBracket
)

// scanner walks the input one byte at a time, tracking the active
// lexical state. It operates on offsets into the original buffer; spans
// are sliced out once at each boundary rather than accumulated
// byte-by-byte.
type scanner struct {
	input string
	opts  Options
	pos   int
	st    state
	tag   string // closing dollar-quote delimiter, captured once on entry

	// significant is set when the current segment contains bytes outside
	// whitespace and comments. Segments without significant content are
	// dropped by Split.
	significant bool
}

// step advances past the byte (or escape pair, or delimiter tag) at the
// current position. It returns true when that byte was a statement
// boundary, i.e. a semicolon in the normal state.
func (s *scanner) step() bool {
	ch := s.input[s.pos]
	n := len(s.input)

	switch s.st {
	case stNormal:
		switch {
		case ch == ';':
			s.pos++
			return true
		case ch == '\'':
			s.st = stSingleQuote
			s.significant = true
			s.pos++
		case ch == '"':
			s.st = stDoubleQuote
			s.significant = true
			s.pos++
		case ch == '`' && s.opts.BacktickQuotes:
			s.st = stBacktick
			s.significant = true
			s.pos++
		case ch == '[' && s.opts.BracketQuotes:
			s.st = stBracket
			s.significant = true
			s.pos++
		case ch == '-' && s.pos+1 < n && s.input[s.pos+1] == '-':
			s.st = stLineComment
			s.pos += 2
		case ch == '/' && s.pos+1 < n && s.input[s.pos+1] == '*':
			s.st = stBlockComment
			s.pos += 2
		case ch == '$' && s.opts.DollarQuotes:
			if tag, end, ok := scanDollarTag(s.input, s.pos); ok {
				s.st = stDollarQuote
				s.tag = tag
				s.significant = true
				s.pos = end
			} else {
				s.significant = true
				s.pos++
			}
		default:
			if !isSpace(ch) {
				s.significant = true
			}
			s.pos++
		}

	case stSingleQuote:
		switch {
		case ch == '\\' && s.opts.BackslashEscapes && s.pos+1 < n:
			s.pos += 2
		case ch == '\'':
			if s.pos+1 < n && s.input[s.pos+1] == '\'' {
				s.pos += 2 // doubled quote is an escape
			} else {
				s.st = stNormal
				s.pos++
			}
		default:
			s.pos++
		}

	case stDoubleQuote:
		switch {
		case ch == '\\' && s.opts.BackslashEscapes && s.pos+1 < n:
			s.pos += 2
		case ch == '"':
			if s.pos+1 < n && s.input[s.pos+1] == '"' {
				s.pos += 2
			} else {
				s.st = stNormal
				s.pos++
			}
		default:
			s.pos++
		}

	case stBacktick:
		if ch == '`' {
			s.st = stNormal
		}
		s.pos++

	case stBracket:
		if ch == ']' {
			s.st = stNormal
		}
		s.pos++

	case stLineComment:
		if ch == '\n' {
			s.st = stNormal
		}
		s.pos++

	case stBlockComment:
		if ch == '*' && s.pos+1 < n && s.input[s.pos+1] == '/' {
			s.st = stNormal
			s.pos += 2
		} else {
			s.pos++
		}

	case stDollarQuote:
		if ch == '$' && strings.HasPrefix(s.input[s.pos:], s.tag) {
			s.st = stNormal
			s.pos += len(s.tag)
		} else {
			s.pos++
		}
	}

	return false
}

// Split scans sql and returns its statement spans in buffer order.
// Statements that trim down to whitespace or comments only are dropped;
// the survivors are re-indexed but keep their original offsets.
func Split(sql string, opts Options) []Span {
	var spans []Span

	sc := &scanner{input: sql, opts: opts}
	segStart := 0

	for sc.pos < len(sql) {
		if sc.step() {
			// sc.pos is one past the semicolon.
			spans = appendSpan(spans, sql, segStart, sc.pos-1, sc.significant)
			segStart = sc.pos
			sc.significant = false
		}
	}

	// Trailing statement without a terminating semicolon.
	if segStart < len(sql) {
		spans = appendSpan(spans, sql, segStart, len(sql), sc.significant)
	}

	return spans
}

// appendSpan pushes the segment [start, boundary) as a span when it has
// significant content. boundary is the semicolon offset, or len(sql) for
// the trailing segment, in which case End is the last byte of input.
func appendSpan(spans []Span, sql string, start, boundary int, significant bool) []Span {
	if !significant {
		return spans
	}
	text := strings.TrimSpace(sql[start:boundary])
	if text == "" {
		return spans
	}
	end := boundary
	if boundary >= len(sql) {
		end = len(sql) - 1
	}
	return append(spans, Span{
		Text:  text,
		Index: len(spans),
		Start: start,
		End:   end,
	})
}

// scanDollarTag checks for a dollar-quote opener at offset i. The tag
// between the dollars must be empty or an identifier; $1 style bind
// parameters are not openers. Returns the full delimiter (e.g. "$body$"
// or "$$") and the offset just past it.
func scanDollarTag(sql string, i int) (tag string, end int, ok bool) {
	j := i + 1
	for j < len(sql) && isIdentByte(sql[j]) {
		j++
	}
	if j >= len(sql) || sql[j] != '$' {
		return "", 0, false
	}
	if j > i+1 && sql[i+1] >= '0' && sql[i+1] <= '9' {
		return "", 0, false
	}
	return sql[i : j+1], j + 1, true
}

// AtOffset resolves the statement under the cursor: the first span whose
// range contains offset, falling back to the first span when the cursor
// sits outside every span. ok is false only when sql has no spans at all.
func AtOffset(sql string, offset int, opts Options) (Span, bool) {
	spans := Split(sql, opts)
	if len(spans) == 0 {
		return Span{}, false
	}
	for _, s := range spans {
		if s.Start <= offset && offset <= s.End {
			return s, true
		}
	}
	return spans[0], true
}

// Complete reports whether sql ends outside any open lexical construct
// with every statement terminated, i.e. whatever follows the last
// semicolon is whitespace or comments only. The REPL uses this to decide
// when a multi-line buffer is ready to execute.
func Complete(sql string, opts Options) bool {
	sc := &scanner{input: sql, opts: opts}
	for sc.pos < len(sql) {
		if sc.step() {
			sc.significant = false
		}
	}
	// End of input closes a line comment; quotes, block comments and
	// dollar-quoted bodies stay open.
	return (sc.st == stNormal || sc.st == stLineComment) && !sc.significant
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isIdentByte(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
