package grouping

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNatural(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"ORD-2", "ORD-10", -1},
		{"ORD-10", "ORD-2", 1},
		{"ORD-2", "ORD-2", 0},
		{"ORD-2025-003", "ORD-2025-10", -1},
		{"ord-5", "ORD-5", 0},
		{"ORD-007", "ORD-7", 0},
		{"RES-1", "ORD-1", 1},
		{"ORD-1-A", "ORD-1", 1},
		{"", "ORD-1", -1},
	}
	for _, tc := range cases {
		got := CompareNatural(tc.a, tc.b)
		assert.Equal(t, tc.want, sign(got), "CompareNatural(%q, %q)", tc.a, tc.b)
	}
}

func TestCompareNaturalSortOrder(t *testing.T) {
	numbers := []string{"ORD-10", "ORD-2", "ORD-1", "ORD-21", "ORD-3"}
	sort.Slice(numbers, func(i, j int) bool { return CompareNatural(numbers[i], numbers[j]) < 0 })
	assert.Equal(t, []string{"ORD-1", "ORD-2", "ORD-3", "ORD-10", "ORD-21"}, numbers)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
