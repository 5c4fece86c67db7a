package feed

import (
	"strconv"
	"strings"
	"time"
)

// Pagination limits. Limits outside [1, MaxLimit] are clamped; a missing
// limit falls back to DefaultLimit.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// cursorSep separates the timestamp from the row id. RFC 3339 timestamps
// never contain an underscore.
const cursorSep = "_"

// Cursor is the decoded form of an opaque pagination cursor: the sort key
// of the last row the caller has seen.
type Cursor struct {
	TS time.Time
	ID int64
}

// EncodeCursor encodes a (timestamp, id) pair as an opaque cursor string.
func EncodeCursor(ts time.Time, id int64) string {
	return ts.UTC().Format(time.RFC3339Nano) + cursorSep + strconv.FormatInt(id, 10)
}

// DecodeCursor decodes an opaque cursor. Decoding is total: anything
// malformed yields nil, which callers treat as "start of feed". A cursor
// is a performance hint, not a security token, so bad input is never an
// error.
func DecodeCursor(s string) *Cursor {
	if s == "" {
		return nil
	}
	i := strings.LastIndex(s, cursorSep)
	if i <= 0 {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s[:i])
	if err != nil {
		return nil
	}
	id, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return nil
	}
	return &Cursor{TS: ts, ID: id}
}

// ClampLimit normalizes a requested page size into [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
