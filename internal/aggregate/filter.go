// Package aggregate filters normalized collections and derives the summary
// figures and chart series shown for them. All functions are pure and never
// modify the collection they are given.
package aggregate

import (
	"strings"

	"finadmin/internal/mapper"
)

// All is the sentinel filter value that disables a predicate.
const All = "all"

// Query is the transient filter state of one screen.
type Query struct {
	Search   string // case-insensitive substring over the text fields
	Status   string // status equality, or All
	Category string // method or role equality, or All
}

// IsInert reports whether the query matches every record.
func (q Query) IsInert() bool {
	return strings.TrimSpace(q.Search) == "" && inert(q.Status) && inert(q.Category)
}

// Fields tells the filter where to find each filterable value of T.
type Fields[T any] struct {
	Text     func(T) []string // searched fields, e.g. id, counterpart id, email
	Status   func(T) string
	Category func(T) string
}

// Filter returns the records matching q, in their original relative order.
func Filter[T any](items []T, q Query, f Fields[T]) []T {
	if q.IsInert() {
		return items
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	status := mapper.CanonicalKey(q.Status)
	category := mapper.CanonicalKey(q.Category)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" && !containsTerm(f.Text, item, term) {
			continue
		}
		if !inert(q.Status) && f.Status != nil && mapper.CanonicalKey(f.Status(item)) != status {
			continue
		}
		if !inert(q.Category) && f.Category != nil && mapper.CanonicalKey(f.Category(item)) != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

func containsTerm[T any](text func(T) []string, item T, term string) bool {
	if text == nil {
		return false
	}
	for _, field := range text(item) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func inert(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}
