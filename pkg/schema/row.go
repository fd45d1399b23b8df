package schema

import (
	"strconv"
	"time"
)

// Row is one raw result row handed back by the query-execution channel,
// keyed by column name. Values carry whatever the driver produced:
// string, []byte, bool, integer and float widths, time.Time, or nil.
//
// The accessors below are deliberately tolerant. Adapters parse rows
// through them so that a missing or NULL optional column degrades to a
// zero value instead of an error; that tolerance is part of the parser
// contract, not a convenience.
type Row map[string]any

// String returns the value under key rendered as a string, and whether
// a non-NULL value was present.
func (r Row) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case bool:
		return strconv.FormatBool(s), true
	case time.Time:
		return s.Format(time.RFC3339), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	return "", false
}

// StringPtr returns a pointer to the string value under key, or nil for
// missing/NULL. Used for optional model fields such as column defaults.
func (r Row) StringPtr(key string) *string {
	if s, ok := r.String(key); ok {
		return &s
	}
	return nil
}

// Bool interprets the value under key as a boolean. Recognizes native
// bools, the numeric 0/1 encodings, and the string spellings the
// information_schema family uses (YES/NO, true/false, 0/1).
func (r Row) Bool(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case int32:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	case []byte:
		return parseBoolString(string(b))
	case string:
		return parseBoolString(b)
	}
	return false
}

func parseBoolString(s string) bool {
	switch s {
	case "YES", "yes", "Y", "true", "TRUE", "t", "1":
		return true
	}
	return false
}

// Int returns the value under key as an int64, and whether a numeric
// value was present.
func (r Row) Int(key string) (int64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// Float returns the value under key as a float64, and whether a numeric
// value was present.
func (r Row) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// FloatPtr returns a pointer to the float value under key, or nil for
// missing/NULL/non-numeric. Used for optional plan statistics.
func (r Row) FloatPtr(key string) *float64 {
	if f, ok := r.Float(key); ok {
		return &f
	}
	return nil
}
