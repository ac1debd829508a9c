package g2b

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func titles(items []any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		s, _ := m["t"].(string)
		out = append(out, s)
	}
	return out
}

func TestExtractItems_Variants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"direct array", `{"response":{"body":{"items":[{"t":"a"},{"t":"b"}]}}}`, []string{"a", "b"}},
		{"item wrapped array", `{"response":{"body":{"items":{"item":[{"t":"a"},{"t":"b"}]}}}}`, []string{"a", "b"}},
		{"item wrapped single object", `{"response":{"body":{"items":{"item":{"t":"a"}}}}}`, []string{"a"}},
		{"double wrapped", `{"response":{"body":{"items":[{"item":[{"t":"a"},{"t":"b"},{"t":"c"}]}]}}}`, []string{"a", "b", "c"}},
		{"items single object", `{"response":{"body":{"items":{"t":"a"}}}}`, []string{"a"}},
		{"body without response", `{"body":{"items":[{"t":"a"}]}}`, []string{"a"}},
		{"root items", `{"items":[{"t":"a"}]}`, []string{"a"}},
		{"null items", `{"response":{"body":{"items":null}}}`, []string{}},
		{"empty string items", `{"response":{"body":{"items":"","totalCount":0}}}`, []string{}},
		{"absent items", `{"response":{"header":{"resultCode":"00"}}}`, []string{}},
		{"empty object items", `{"response":{"body":{"items":{},"totalCount":0}}}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractItems(decodeEnvelope(t, tt.body))
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestExtractItems_FlatArrayIsIdempotent(t *testing.T) {
	flat := []any{
		map[string]any{"t": "1"},
		map[string]any{"t": "2"},
		map[string]any{"t": "3"},
	}
	got := ExtractItems(flat)
	assert.Equal(t, flat, got)
	assert.Equal(t, flat, ExtractItems(got))
}

func TestMergeItems_PageOrder(t *testing.T) {
	p1 := decodeEnvelope(t, `{"response":{"body":{"items":[{"t":"a"},{"t":"b"}]}}}`)
	p2 := decodeEnvelope(t, `{"response":{"body":{"items":{"item":{"t":"b"}}}}}`)
	p3 := decodeEnvelope(t, `{"response":{"body":{"items":null}}}`)
	got := MergeItems([]any{p1, p2, p3})
	assert.Equal(t, []string{"a", "b", "b"}, titles(got))

	assert.NotNil(t, MergeItems(nil))
	assert.Empty(t, MergeItems(nil))
}

func TestTotalCount(t *testing.T) {
	assert.Equal(t, 250, TotalCount(decodeEnvelope(t, `{"response":{"body":{"totalCount":250}}}`)))
	assert.Equal(t, 42, TotalCount(decodeEnvelope(t, `{"response":{"body":{"totalCount":"42"}}}`)))
	assert.Equal(t, 0, TotalCount(decodeEnvelope(t, `{"response":{"body":{}}}`)))
	assert.Equal(t, 0, TotalCount(decodeEnvelope(t, `{"response":{"body":{"totalCount":"n/a"}}}`)))
	assert.Equal(t, 0, TotalCount([]any{}))
}
