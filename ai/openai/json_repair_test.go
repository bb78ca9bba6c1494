package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "valid JSON unchanged",
			in:   `{"category": "Legal", "confidence": 90}`,
			want: `{"category": "Legal", "confidence": 90}`,
		},
		{
			name: "bare key after brace",
			in:   `{category": "Legal"}`,
			want: `{"category": "Legal"}`,
		},
		{
			name: "bare key after comma",
			in:   `{"a": 1, type": "x"}`,
			want: `{"a": 1, "type": "x"}`,
		},
		{
			name: "trailing comma in object",
			in:   `{"a": 1, "b": 2,}`,
			want: `{"a": 1, "b": 2}`,
		},
		{
			name: "trailing comma in array",
			in:   `{"keywords": ["uno", "dos",]}`,
			want: `{"keywords": ["uno", "dos"]}`,
		},
		{
			name: "comma inside string kept",
			in:   `{"text": "a, }"}`,
			want: `{"text": "a, }"}`,
		},
		{
			name: "escaped quotes with trailing comma",
			in:   `{"text": "say \"hi\"",}`,
			want: `{"text": "say \"hi\""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.in)
			assert.Equal(t, tt.want, got)

			var v any
			require.NoError(t, json.Unmarshal([]byte(got), &v), "repaired output must parse")
		})
	}
}

func TestTruncateExcerpt(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hola mundo", truncateExcerpt("  hola mundo  ", 100))
	})

	t.Run("cuts at word boundary", func(t *testing.T) {
		out := truncateExcerpt("palabra uno dos tres cuatro", 15)
		assert.Equal(t, "palabra uno", out)
	})

	t.Run("hard cut when no useful space", func(t *testing.T) {
		out := truncateExcerpt("abcdefghijklmnop", 10)
		assert.Equal(t, "abcdefghij", out)
	})
}
