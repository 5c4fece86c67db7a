package feed

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		id   int64
	}{
		{
			name: "second precision",
			ts:   time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			id:   17,
		},
		{
			name: "nanosecond precision",
			ts:   time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
			id:   9223372036854775807,
		},
		{
			name: "non-UTC input normalized",
			ts:   time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.FixedZone("KST", 9*3600)),
			id:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeCursor(tt.ts, tt.id)
			cur := DecodeCursor(encoded)
			if cur == nil {
				t.Fatalf("DecodeCursor(%q) = nil, want cursor", encoded)
			}
			if !cur.TS.Equal(tt.ts) {
				t.Errorf("timestamp did not round-trip: got %v, want %v", cur.TS, tt.ts)
			}
			if cur.ID != tt.id {
				t.Errorf("id did not round-trip: got %d, want %d", cur.ID, tt.id)
			}
		})
	}
}

func TestDecodeCursorMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no separator", input: "2026-03-14T09:26:53Z"},
		{name: "garbage", input: "not a cursor"},
		{name: "bad timestamp", input: "yesterday_17"},
		{name: "bad id", input: "2026-03-14T09:26:53Z_seventeen"},
		{name: "leading separator", input: "_17"},
		{name: "trailing separator", input: "2026-03-14T09:26:53Z_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Malformed cursors mean "start of feed", never an error.
			if cur := DecodeCursor(tt.input); cur != nil {
				t.Errorf("DecodeCursor(%q) = %+v, want nil", tt.input, cur)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: DefaultLimit},
		{name: "negative uses default", limit: -3, want: DefaultLimit},
		{name: "in range unchanged", limit: 2, want: 2},
		{name: "max allowed", limit: 100, want: 100},
		{name: "above max clamped", limit: 500, want: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLimit(tt.limit); got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}
