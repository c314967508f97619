package paging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		name             string
		page, pageSize   int
		wantPage, wantPS int
	}{
		{"defaults for zero", 0, 0, 1, DefaultPageSize},
		{"negative values", -3, -7, 1, DefaultPageSize},
		{"oversized page size", 2, 1000, 2, MaxPageSize},
		{"in range untouched", 4, 25, 4, 25},
		{"upper bound kept", 1, 100, 1, 100},
		{"lower bound kept", 1, 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Clamp(tc.page, tc.pageSize)
			assert.Equal(t, tc.wantPage, got.Page)
			assert.Equal(t, tc.wantPS, got.PageSize)
			assert.GreaterOrEqual(t, got.PageSize, 1)
			assert.LessOrEqual(t, got.PageSize, MaxPageSize)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Clamp(1, 10).Offset())
	assert.Equal(t, 20, Clamp(3, 10).Offset())
}

func TestOffsetNeverNegative(t *testing.T) {
	assert.Equal(t, math.MaxInt-1, Clamp(math.MaxInt, 1).Offset())
	assert.Equal(t, math.MaxInt, Clamp(math.MaxInt, 10).Offset())
	assert.Equal(t, math.MaxInt, Clamp(math.MaxInt, MaxPageSize).Offset())
	assert.Equal(t, math.MaxInt, Clamp(math.MaxInt/MaxPageSize+2, MaxPageSize).Offset())
}

func TestNewResultNormalizesNilItems(t *testing.T) {
	res := NewResult[int](nil, Clamp(1, 10), 0)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)

	mapped := Map(NewResult([]int{1, 2}, Clamp(2, 5), 7), func(v int) string { return string(rune('a' + v)) })
	assert.Equal(t, []string{"b", "c"}, mapped.Items)
	assert.Equal(t, 2, mapped.Page)
	assert.Equal(t, 7, mapped.TotalItems)
}
