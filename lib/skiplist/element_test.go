package skiplist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sumAgg(a, b int) int { return a + b }

func newTestList(seed uint64) *List[int] {
	return New[int](64,
		WithDefaultValue[int](1),
		WithAggregateFunction[int](sumAgg),
		WithSeed[int](seed),
	)
}

func chain(l *List[int], n int) []*Element[int] {
	es := make([]*Element[int], n)
	for i := range es {
		es[i] = l.NewElement()
	}
	for i := 0; i < n-1; i++ {
		Join(es[i], es[i+1])
	}
	return es
}

func TestJoinAcyclicFindRepresentativeAgrees(t *testing.T) {
	l := newTestList(1)
	es := chain(l, 20)
	rep := FindRepresentative(es[0])
	for _, e := range es {
		require.Same(t, rep, FindRepresentative(e))
	}
}

func TestJoinCyclicFindRepresentativeAgrees(t *testing.T) {
	l := newTestList(2)
	es := chain(l, 15)
	Join(es[len(es)-1], es[0])
	rep := FindRepresentative(es[0])
	for _, e := range es {
		require.Same(t, rep, FindRepresentative(e))
	}
}

func TestFindRepresentativeDistinguishesLists(t *testing.T) {
	l := newTestList(3)
	a := chain(l, 8)
	b := chain(l, 8)
	require.NotSame(t, FindRepresentative(a[0]), FindRepresentative(b[0]))
}

func TestSplitSeparatesLists(t *testing.T) {
	l := newTestList(4)
	es := chain(l, 10)

	Split(es[4])

	require.Nil(t, es[4].GetNextElement())
	require.Nil(t, es[5].GetPreviousElement())

	leftRep := FindRepresentative(es[0])
	rightRep := FindRepresentative(es[9])
	require.NotSame(t, leftRep, rightRep)
	for _, e := range es[:5] {
		require.Same(t, leftRep, FindRepresentative(e))
	}
	for _, e := range es[5:] {
		require.Same(t, rightRep, FindRepresentative(e))
	}
}

func TestSplitOnSingletonCycleClearsSelfLoop(t *testing.T) {
	l := newTestList(5)
	v := l.NewElement()
	Join(v, v)
	require.Same(t, v, v.GetNextElement())

	Split(v)
	require.Nil(t, v.GetNextElement())
	require.Nil(t, v.GetPreviousElement())
	require.Same(t, v, FindRepresentative(v))
}

func TestGetPreviousAndNextElement(t *testing.T) {
	l := newTestList(6)
	es := chain(l, 3)
	require.Same(t, es[1], es[0].GetNextElement())
	require.Same(t, es[0], es[1].GetPreviousElement())
	require.Nil(t, es[0].GetPreviousElement())
	require.Nil(t, es[2].GetNextElement())
}
