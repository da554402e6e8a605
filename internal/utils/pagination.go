// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead. Query parameters
// such as ?limit= go through this before clamping.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampLimit bounds a caller-supplied page size to [1, max]. Non-positive
// values fall back to max, matching the store's own fetch cap behavior.
func ClampLimit(n, max int) int {
	if max <= 0 {
		return n
	}
	if n <= 0 || n > max {
		return max
	}
	return n
}
