package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"term": "test"}`,
			want:  `{"term": "test"}`,
		},
		{
			name:  "prose wrapped",
			input: "Sure! Here is the plan you asked for:\n\n{\"term\": \"test\"}\n\nLet me know if you need changes.",
			want:  `{"term": "test"}`,
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"term\": \"test\"}\n```",
			want:  `{"term": "test"}`,
		},
		{
			name:  "nested objects",
			input: `result: {"a": {"b": {"c": 1}}, "d": 2} trailing`,
			want:  `{"a": {"b": {"c": 1}}, "d": 2}`,
		},
		{
			name:  "braces inside strings",
			input: `{"text": "use {curly} braces } here"}`,
			want:  `{"text": "use {curly} braces } here"}`,
		},
		{
			name:  "escaped quotes inside strings",
			input: `{"text": "she said \"hi}\" to me"}`,
			want:  `{"text": "she said \"hi}\" to me"}`,
		},
		{
			name:  "first of several objects",
			input: `{"first": 1} and then {"second": 2}`,
			want:  `{"first": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// extracted spans must be valid JSON
			var v map[string]interface{}
			assert.NoError(t, json.Unmarshal([]byte(got), &v))
		})
	}
}

func TestExtractJSON_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no braces", "the model refused to answer"},
		{"unterminated", `{"term": "test"`},
		{"unterminated string", `{"term: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.input)
			assert.ErrorIs(t, err, ErrNoJSON)
		})
	}
}
