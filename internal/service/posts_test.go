package service

import (
	"reflect"
	"testing"
)

func TestDedupeTags(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "duplicates collapse",
			input: []string{"a", "b", "a"},
			want:  []string{"a", "b"},
		},
		{
			name:  "order preserved",
			input: []string{"travel", "food", "travel", "seoul"},
			want:  []string{"travel", "food", "seoul"},
		},
		{
			name:  "whitespace trimmed",
			input: []string{" a ", "a", "b\t"},
			want:  []string{"a", "b"},
		},
		{
			name:  "empties dropped",
			input: []string{"", "  ", "a"},
			want:  []string{"a"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeTags(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupeTags(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
