package orderedbuffer_test

import (
	"slices"
	"testing"

	"github.com/on-the-ground/packrat_ive_go/internal/orderedbuffer"
	"github.com/stretchr/testify/assert"
)

func TestOrderedBoundedBuffer_InsertAndEviction(t *testing.T) {
	buf := orderedbuffer.NewOrderedBoundedBuffer(3, func(a, b int) int {
		return a - b
	})

	var evicted []int
	for _, v := range []int{10, 5, 7, 3, 8} {
		if e, ok := buf.Insert(v); ok {
			evicted = append(evicted, e)
		}
	}

	// 3 is evicted right away, then 5 makes room for 8
	assert.Equal(t, []int{3, 5}, evicted)
	want := []int{7, 8, 10}
	if got := buf.Items(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestOrderedBoundedBuffer_EqualValuesKeepInsertionOrder(t *testing.T) {
	type item struct {
		key  int
		name string
	}
	buf := orderedbuffer.NewOrderedBoundedBuffer(4, func(a, b item) int {
		return a.key - b.key
	})

	buf.Insert(item{1, "a"})
	buf.Insert(item{2, "b"})
	buf.Insert(item{1, "c"})

	assert.Equal(t, []item{{1, "a"}, {1, "c"}, {2, "b"}}, buf.Items())
	assert.Equal(t, 3, buf.Len())
}

func TestOrderedBoundedBuffer_ZeroSizePanics(t *testing.T) {
	assert.Panics(t, func() {
		orderedbuffer.NewOrderedBoundedBuffer(0, func(a, b int) int { return a - b })
	})
}
