// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import "strings"

// Ptr returns a pointer to v. Handy for optional struct fields.
func Ptr[T any](v T) *T {
	return &v
}

// SplitList splits a comma-separated cell value into trimmed items,
// dropping empties. Returns nil for a blank input.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(s, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// EqualsIgnoreCase compares two strings ignoring case and surrounding
// whitespace. Used when matching free-typed sheet values against catalogs.
func EqualsIgnoreCase(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Dedupe returns the input without duplicates, preserving first-seen order.
func Dedupe[T comparable](items []T) []T {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[T]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
