package g2b

import (
	"encoding/json"
	"strconv"
	"strings"
)

// bodyOf descends through the optional response/body wrappers of an
// upstream envelope and returns the innermost object, or nil when the
// envelope is not an object.
func bodyOf(env any) map[string]any {
	m, ok := env.(map[string]any)
	if !ok {
		return nil
	}
	if resp, ok := m["response"].(map[string]any); ok {
		m = resp
	}
	if body, ok := m["body"].(map[string]any); ok {
		m = body
	}
	return m
}

// ExtractItems locates the item list of one envelope. Candidates, in order:
// the items value as an array, an object wrapping the array under "item",
// and a single-element array whose element wraps the real array under
// "item". A bare object counts as a one-element list; null, absent and the
// empty string the upstream sends for "no data" yield an empty list.
func ExtractItems(env any) []any {
	if arr, ok := env.([]any); ok {
		return unwrapItems(arr)
	}
	body := bodyOf(env)
	if body == nil {
		return nil
	}
	return unwrapItems(body["items"])
}

func unwrapItems(v any) []any {
	switch t := v.(type) {
	case []any:
		if len(t) == 1 {
			if inner, ok := wrappedArray(t[0]); ok {
				return inner
			}
		}
		return t
	case map[string]any:
		if len(t) == 0 {
			return nil
		}
		inner, ok := t["item"]
		if !ok {
			return []any{t}
		}
		list := asList(inner)
		if len(list) == 1 {
			if again, ok := wrappedArray(list[0]); ok {
				return again
			}
		}
		return list
	default:
		return nil
	}
}

// wrappedArray reports whether v is an object holding an array under "item".
func wrappedArray(v any) ([]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	arr, ok := m["item"].([]any)
	return arr, ok
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		return []any{t}
	default:
		return nil
	}
}

// MergeItems concatenates the items of every envelope in page order.
// Duplicates across pages are kept.
func MergeItems(envs []any) []any {
	var out []any
	for _, env := range envs {
		out = append(out, ExtractItems(env)...)
	}
	if out == nil {
		out = []any{}
	}
	return out
}

// TotalCount reads the upstream's total-count hint. Missing or malformed
// values yield 0 (unknown).
func TotalCount(env any) int {
	body := bodyOf(env)
	if body == nil {
		return 0
	}
	return toInt(body["totalCount"])
}

func toInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}
