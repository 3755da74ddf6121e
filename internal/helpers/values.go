package helpers

import "unicode/utf8"

// Ptr returns a pointer to the value passed as an argument. If the value is nil, it returns a nil pointer.
func Ptr[T any](v T) *T {
	if any(v) == nil {
		return nil
	}
	return &v
}

// Truncate shortens the given string to at most n bytes, appending "..." if truncation occurs.
// The cut never splits a multi-byte rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:runeBoundary(s, n)]
	}
	return s[:runeBoundary(s, n-3)] + "..."
}

// runeBoundary returns the largest rune start in s at or before i.
func runeBoundary(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
