package date

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// History keeps a sorted list of month/value pairs, at most one value per
// month. The zero value is ready to use.
type History[T float32 | float64 | string] struct {
	months []Month
	values []T
}

// Append adds a value for the given month, replacing any existing value and
// keeping the series sorted.
func (h *History[T]) Append(m Month, value T) {
	i, found := slices.BinarySearchFunc(h.months, m, compareMonth)
	if found {
		h.values[i] = value
		return
	}
	h.months = slices.Insert(h.months, i, m)
	h.values = slices.Insert(h.values, i, value)
}

func compareMonth(a, b Month) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Len returns the number of months in the series.
func (h *History[T]) Len() int { return len(h.months) }

// Get returns the value recorded for that exact month.
func (h *History[T]) Get(m Month) (T, bool) {
	i, found := slices.BinarySearchFunc(h.months, m, compareMonth)
	if !found {
		var zero T
		return zero, false
	}
	return h.values[i], true
}

// Latest returns the most recent month and its value.
func (h *History[T]) Latest() (Month, T, bool) {
	if len(h.months) == 0 {
		var zero T
		return Month{}, zero, false
	}
	return h.months[len(h.months)-1], h.values[len(h.values)-1], true
}

// FromEnd returns the n-th value counting back from the most recent one,
// so FromEnd(1) is the latest value and FromEnd(2) the one before it.
func (h *History[T]) FromEnd(n int) (T, bool) {
	if n < 1 || n > len(h.values) {
		var zero T
		return zero, false
	}
	return h.values[len(h.values)-n], true
}

// TakeLast trims the series in place to its most recent n months.
func (h *History[T]) TakeLast(n int) {
	if n < 0 {
		n = 0
	}
	if len(h.months) <= n {
		return
	}
	h.months = slices.Clone(h.months[len(h.months)-n:])
	h.values = slices.Clone(h.values[len(h.values)-n:])
}

// Months returns a copy of the series' months, in ascending order.
func (h *History[T]) Months() []Month { return slices.Clone(h.months) }

// Values iterates over the series in chronological order.
func (h *History[T]) Values() iter.Seq2[Month, T] {
	return func(yield func(Month, T) bool) {
		for i, m := range h.months {
			if !yield(m, h.values[i]) {
				return
			}
		}
	}
}

// String returns a compact single-line rendition, for tests and logs.
func (h *History[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, m := range h.months {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s:%v", m, h.values[i])
	}
	sb.WriteByte(']')
	return sb.String()
}
