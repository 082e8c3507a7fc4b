package sandbox

import (
	"fmt"
	"regexp"
	"strings"
)

// findall returns every non-overlapping match of pattern in s.
func findall(pattern, s any) ([]string, error) {
	re, err := regexp.Compile(text(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	matches := re.FindAllString(text(s), -1)
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}

// formatText substitutes "{}" placeholders with the textual form of the
// arguments, in order. Placeholders without a matching argument stay as-is.
func formatText(format any, args ...any) string {
	var b strings.Builder
	s := text(format)
	for _, arg := range args {
		before, after, found := strings.Cut(s, "{}")
		if !found {
			break
		}
		b.WriteString(before)
		b.WriteString(text(arg))
		s = after
	}
	b.WriteString(s)
	return b.String()
}

// toSlice normalizes the slice shapes expr produces to []any.
func toSlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, nil
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}

// enumerate pairs each element with its index: [[0, v0], [1, v1], ...].
func enumerate(v any) ([][]any, error) {
	items, err := toSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([][]any, len(items))
	for i, e := range items {
		out[i] = []any{i, e}
	}
	return out, nil
}

// zipLists pairs elements of two lists up to the shorter length.
func zipLists(a, b any) ([][]any, error) {
	left, err := toSlice(a)
	if err != nil {
		return nil, err
	}
	right, err := toSlice(b)
	if err != nil {
		return nil, err
	}
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	out := make([][]any, n)
	for i := 0; i < n; i++ {
		out[i] = []any{left[i], right[i]}
	}
	return out, nil
}
