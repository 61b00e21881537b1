package edgemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testEdge struct {
	u, v int
	twin *testEdge
}

func (e *testEdge) Twin() *testEdge { return e.twin }

func newTwinPair(u, v int) (*testEdge, *testEdge) {
	uv := &testEdge{u: u, v: v}
	vu := &testEdge{u: v, v: u}
	uv.twin = vu
	vu.twin = uv
	return uv, vu
}

func TestInsertFindCanonical(t *testing.T) {
	m := New[*testEdge](8)
	uv, vu := newTwinPair(2, 5)
	require.NoError(t, m.Insert(2, 5, uv))

	found, ok := m.Find(2, 5)
	require.True(t, ok)
	require.Same(t, uv, found)

	found, ok = m.Find(5, 2)
	require.True(t, ok)
	require.Same(t, vu, found)
}

func TestDeleteThenFindMisses(t *testing.T) {
	m := New[*testEdge](8)
	uv, _ := newTwinPair(1, 3)
	require.NoError(t, m.Insert(1, 3, uv))

	got, err := m.Delete(1, 3)
	require.NoError(t, err)
	require.Same(t, uv, got)

	_, ok := m.Find(1, 3)
	require.False(t, ok)

	_, err = m.Delete(1, 3)
	require.Error(t, err)
}

func TestGrowthAcrossManyEdges(t *testing.T) {
	m := New[*testEdge](16)
	n := 500
	pairs := make([]*testEdge, 0, n)
	for i := 0; i < n; i++ {
		uv, _ := newTwinPair(i, i+1)
		require.NoError(t, m.Insert(i, i+1, uv))
		pairs = append(pairs, uv)
	}
	require.Equal(t, n, m.Len())
	for i, uv := range pairs {
		found, ok := m.Find(i, i+1)
		require.True(t, ok)
		require.Same(t, uv, found)
	}
}
