package orderedbuffer

import (
	"slices"
	"sort"
)

type CompareFunc[T any] func(a, b T) int

// OrderedBoundedBuffer keeps at most maxBufLen values in ascending order.
// Once full, every insert evicts the smallest value.
type OrderedBoundedBuffer[T any] struct {
	data      []T
	maxBufLen int
	compare   CompareFunc[T]
}

func NewOrderedBoundedBuffer[T any](maxBufLen int, cmp CompareFunc[T]) *OrderedBoundedBuffer[T] {
	if maxBufLen <= 0 {
		panic("maxBufLen should be greater than 0")
	}
	return &OrderedBoundedBuffer[T]{
		data:      make([]T, 0, maxBufLen+1),
		maxBufLen: maxBufLen,
		compare:   cmp,
	}
}

// Insert places val after any equal values. If that overflows the buffer,
// the smallest value is removed and returned with ok set.
func (b *OrderedBoundedBuffer[T]) Insert(val T) (evicted T, ok bool) {
	idx := sort.Search(len(b.data), func(i int) bool {
		return b.compare(val, b.data[i]) < 0
	})

	b.data = append(b.data, val)
	copy(b.data[idx+1:], b.data[idx:])
	b.data[idx] = val

	if len(b.data) > b.maxBufLen {
		evicted, ok = b.data[0], true
		b.data = slices.Delete(b.data, 0, 1)
	}
	return
}

// Items returns the buffered values, smallest first.
func (b *OrderedBoundedBuffer[T]) Items() []T {
	return slices.Clone(b.data)
}

func (b *OrderedBoundedBuffer[T]) Len() int {
	return len(b.data)
}
