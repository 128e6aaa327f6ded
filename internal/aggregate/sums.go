package aggregate

import (
	"sort"
	"time"

	"finadmin/internal/mapper"
)

// Total returns the sum of amount over items.
func Total[T any](items []T, amount func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += amount(item)
	}
	return total
}

// TotalWhere returns the sum of amount over the items whose key matches
// value. Keys are compared in canonical form.
func TotalWhere[T any](items []T, key func(T) string, value string, amount func(T) float64) float64 {
	want := mapper.CanonicalKey(value)
	var total float64
	for _, item := range items {
		if mapper.CanonicalKey(key(item)) == want {
			total += amount(item)
		}
	}
	return total
}

// CountWhere returns the number of items whose key matches value.
func CountWhere[T any](items []T, key func(T) string, value string) int {
	want := mapper.CanonicalKey(value)
	n := 0
	for _, item := range items {
		if mapper.CanonicalKey(key(item)) == want {
			n++
		}
	}
	return n
}

// Slice is one labelled value of a chart series.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GroupSum sums amount per key. Slices are ordered by value descending, ties
// broken by label; an empty collection yields an empty series.
func GroupSum[T any](items []T, key func(T) string, amount func(T) float64) []Slice {
	sums := make(map[string]float64)
	var order []string
	for _, item := range items {
		k := key(item)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += amount(item)
	}

	series := make([]Slice, 0, len(order))
	for _, k := range order {
		series = append(series, Slice{Label: k, Value: sums[k]})
	}
	sortSlices(series)
	return series
}

// GroupCount counts items per key, ordered like GroupSum.
func GroupCount[T any](items []T, key func(T) string) []Slice {
	return GroupSum(items, key, func(T) float64 { return 1 })
}

func sortSlices(series []Slice) {
	sort.SliceStable(series, func(i, j int) bool {
		if series[i].Value != series[j].Value {
			return series[i].Value > series[j].Value
		}
		return series[i].Label < series[j].Label
	})
}

// Latest returns up to n items ordered by at, newest first. The input is
// not modified.
func Latest[T any](items []T, n int, at func(T) time.Time) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return at(sorted[i]).After(at(sorted[j]))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
