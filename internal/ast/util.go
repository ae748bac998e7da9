package ast

import "strings"

func upper(s string) string {
	return strings.ToUpper(s)
}

// FloatsEqual reports whether two optional float values are equal: both nil,
// or both non-nil and within tol of each other.
func FloatsEqual(a, b *float64, tol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}
