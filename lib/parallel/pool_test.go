package parallel

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolFor(t *testing.T) {
	pl := New(WithSize(4))
	defer pl.Release()

	var sum atomic.Int64
	pl.For(100, func(i int) {
		sum.Add(int64(i))
	})
	require.EqualValues(t, 4950, sum.Load())
}

func TestPoolForZero(t *testing.T) {
	pl := New()
	defer pl.Release()

	called := false
	pl.For(0, func(i int) { called = true })
	require.False(t, called)
}

func TestPoolDo(t *testing.T) {
	pl := New(WithSize(2))
	defer pl.Release()

	var left, right bool
	pl.Do(func() { left = true }, func() { right = true })
	require.True(t, left)
	require.True(t, right)
}

func TestIntegerSort(t *testing.T) {
	keys := []int{5, 3, 1, 4, 2}
	vals := []string{"e", "c", "a", "d", "b"}
	IntegerSort(keys, vals)
	require.True(t, sort.IntsAreSorted(keys))
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, vals)
}

func TestPack(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	kept := Pack(items, func(i int) bool { return i%2 == 0 })
	require.Equal(t, []int{2, 4, 6}, kept)
}
