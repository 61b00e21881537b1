package forest

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func sumAgg(a, b int) int { return a + b }

func newTestForest(n int, seed uint64) *EulerTourTree[int] {
	return New[int](n, seed,
		WithDefaultValue[int](1),
		WithAggregateFunction[int](sumAgg),
	)
}

func TestSingletonForest(t *testing.T) {
	f := newTestForest(5, 1)
	for v := 0; v < 5; v++ {
		require.True(t, f.IsConnected(v, v))
		require.Equal(t, 1, f.GetSum(v))
	}
	require.False(t, f.IsConnected(0, 1))
}

func TestLinkCutIsNoOp(t *testing.T) {
	f := newTestForest(10, 2)
	require.NoError(t, f.Link(0, 1))
	require.True(t, f.IsConnected(0, 1))
	require.Equal(t, 4, f.GetSum(0))

	require.NoError(t, f.Cut(0, 1))
	require.False(t, f.IsConnected(0, 1))
	require.Equal(t, 1, f.GetSum(0))
	require.Equal(t, 1, f.GetSum(1))
}

func TestBatchLinkChainScenario(t *testing.T) {
	f := newTestForest(1000, 3)
	links := make([]Edge, 250)
	for i := range links {
		links[i] = Edge{i, i + 1}
	}
	require.NoError(t, f.BatchLink(links))

	require.True(t, f.IsConnected(0, 250))
	require.False(t, f.IsConnected(0, 251))
	require.Equal(t, 751, f.GetSum(0))

	require.NoError(t, f.BatchCut(links))
	require.Equal(t, 1, f.GetSum(0))
	require.False(t, f.IsConnected(0, 250))
}

func TestBatchLinkLongChainScenario(t *testing.T) {
	n := 1000
	f := newTestForest(n, 4)
	links := make([]Edge, n-1)
	for i := range links {
		links[i] = Edge{i, i + 1}
	}
	require.NoError(t, f.BatchLink(links))
	require.Equal(t, 2998, f.GetSum(0))

	require.NoError(t, f.BatchCut(links))
	require.Equal(t, 1, f.GetSum(0))
}

func TestBatchLinkStarScenario(t *testing.T) {
	n := 100
	f := newTestForest(n, 5)
	links := make([]Edge, n-1)
	for i := 1; i < n; i++ {
		links[i-1] = Edge{0, i}
	}
	require.NoError(t, f.BatchLink(links))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.True(t, f.IsConnected(i, j))
		}
	}
	require.Equal(t, 298, f.GetSum(0))
}

func TestBatchCutChainLeavesSingletons(t *testing.T) {
	n := 40
	f := newTestForest(n, 6)
	links := make([]Edge, n-1)
	for i := range links {
		links[i] = Edge{i, i + 1}
	}
	require.NoError(t, f.BatchLink(links))
	require.NoError(t, f.BatchCut(links))
	for v := 0; v < n; v++ {
		require.Equal(t, 1, f.GetSum(v))
		if v > 0 {
			require.False(t, f.IsConnected(0, v))
		}
	}
}

func TestUpdateSingleton(t *testing.T) {
	f := newTestForest(3, 7)
	f.Update(0, 7)
	require.Equal(t, 7, f.GetSum(0))
}

func TestUpdateWithFunctionPropagates(t *testing.T) {
	f := newTestForest(10, 8)
	require.NoError(t, f.Link(0, 1))
	f.UpdateWithFunction(0, func(v int) int { return v + 9 })
	require.Equal(t, 10, f.GetValue(0))
	require.Equal(t, 13, f.GetSum(0))
}

func TestBatchUpdateAcrossTree(t *testing.T) {
	f := newTestForest(10, 9)
	require.NoError(t, f.BatchLink([]Edge{{0, 1}, {1, 2}, {2, 3}}))
	f.BatchUpdate([]int{0, 1, 2, 3}, []int{2, 2, 2, 2})
	require.Equal(t, 8+2*3, f.GetSum(0))
}

func TestBatchLinkThenBatchCutRoundTripPreservesSums(t *testing.T) {
	n := 500
	f := newTestForest(n, 10)
	links := make([]Edge, n-1)
	for i := range links {
		links[i] = Edge{i, i + 1}
	}
	require.NoError(t, f.BatchLink(links))
	before := f.GetSum(0)
	require.NoError(t, f.BatchCut(links))
	require.NoError(t, f.BatchLink(links))
	require.Equal(t, before, f.GetSum(0))
}

// unionFind is a minimal reference model Link is checked against in the
// randomized fuzz test below.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y int) {
	uf.parent[uf.find(x)] = uf.find(y)
}

func TestRandomizedFuzzAgainstUnionFind(t *testing.T) {
	const n = 60
	rng := randv2.New(randv2.NewPCG(42, 42))
	f := newTestForest(n, 42)
	uf := newUnionFind(n)
	present := make(map[Edge]bool)

	for trial := 0; trial < 100; trial++ {
		u, v := rng.IntN(n), rng.IntN(n)
		if u == v {
			continue
		}
		e := Edge{u, v}
		if u > v {
			e = Edge{v, u}
		}
		if present[e] {
			continue
		}
		if uf.find(u) == uf.find(v) {
			continue
		}
		require.NoError(t, f.Link(e.U, e.V))
		uf.union(u, v)
		present[e] = true
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			require.Equal(t, uf.find(i) == uf.find(j), f.IsConnected(i, j), "vertices %d,%d", i, j)
		}
	}
}
