package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlainObject(t *testing.T) {
	var out struct {
		Score float64 `json:"score"`
	}
	err := ExtractJSON(`{"score": 0.8}`, &out)
	require.NoError(t, err)
	require.Equal(t, 0.8, out.Score)
}

func TestExtractJSONSurroundedByProse(t *testing.T) {
	text := "Sure! Here is the analysis you asked for:\n```json\n{\"score\": 0.65, \"points\": 70}\n```\nLet me know if you need anything else."

	var out struct {
		Score  float64 `json:"score"`
		Points int     `json:"points"`
	}
	err := ExtractJSON(text, &out)
	require.NoError(t, err)
	require.Equal(t, 0.65, out.Score)
	require.Equal(t, 70, out.Points)
}

func TestExtractJSONNestedBraces(t *testing.T) {
	text := `prefix {"outer": {"inner": 2}, "tag": "a}b"} suffix`

	var out struct {
		Outer struct {
			Inner int `json:"inner"`
		} `json:"outer"`
		Tag string `json:"tag"`
	}
	err := ExtractJSON(text, &out)
	require.NoError(t, err)
	require.Equal(t, 2, out.Outer.Inner)
	require.Equal(t, "a}b", out.Tag)
}

func TestExtractJSONEscapedQuoteInString(t *testing.T) {
	text := `{"rationale": "calls it a \"masterpiece\""}`

	var out struct {
		Rationale string `json:"rationale"`
	}
	err := ExtractJSON(text, &out)
	require.NoError(t, err)
	require.Equal(t, `calls it a "masterpiece"`, out.Rationale)
}

func TestExtractJSONArray(t *testing.T) {
	var out []int
	err := ExtractJSON("the values are [1, 2, 3] as requested", &out)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)
}

func TestExtractJSONArrayBeforeObject(t *testing.T) {
	var out []string
	err := ExtractJSON(`["a", "b"] and also {"x": 1}`, &out)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, out)
}

func TestExtractJSONErrors(t *testing.T) {
	var out map[string]interface{}

	require.Error(t, ExtractJSON("no json here at all", &out))
	require.Error(t, ExtractJSON(`{"unbalanced": true`, &out))
	require.Error(t, ExtractJSON(`{"bad": }`, &out))
}
