package forest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/benz9527/xforest/lib/parallel"
	"github.com/benz9527/xforest/lib/skiplist"
)

// Link joins the trees containing u and v with a new edge. Collapses the
// distilled source's Link/Link2/Link3 into the single splice orientation
// BatchLink's single-edge joins already commit to, so Link and a one-edge
// BatchLink produce identical tours: u_left . uv . v_right . vu . u_right,
// where u_left/v_right fall out of splitting each tour right after
// vertices[u]/vertices[v].
//
// Precondition (unchecked): u and v lie in different trees.
func (t *EulerTourTree[T]) Link(u, v int) error {
	start := time.Now()
	uv, vu := t.newEdgePair()
	if err := t.insertEdge(u, v, uv, vu); err != nil {
		return err
	}

	uRight := t.vertices[u].GetNextElement()
	vRight := t.vertices[v].GetNextElement()
	skiplist.Split(t.vertices[u])
	skiplist.Split(t.vertices[v])

	t.list.BatchJoin([][2]*skiplist.Element[T]{
		{t.vertices[u], uv.elem},
		{uv.elem, vRight},
		{t.vertices[v], vu.elem},
		{vu.elem, uRight},
	})
	t.cfg.meter.RecordLink(context.Background(), 1, time.Since(start))
	return nil
}

// BatchLink links k new edges in parallel, none of which may introduce a
// cycle or touch the same vertex run ambiguously (undefined behavior on
// caller misuse, matching Link's own precondition).
//
// Directed pairs for each edge are integer-sorted by first coordinate so
// every vertex's newly incident edges form one contiguous run; within a
// run the vertex is spliced in only once (at the run's first occurrence)
// and the run's edges are chained to each other via their reverse
// occurrences, closing at the run's last occurrence onto whatever
// followed that vertex before the batch.
func (t *EulerTourTree[T]) BatchLink(edges []Edge) error {
	k := len(edges)
	if k == 0 {
		return nil
	}
	start := time.Now()

	type directed struct{ u, v int }
	pairs := make([]directed, 0, 2*k)
	for _, e := range edges {
		pairs = append(pairs, directed{e.U, e.V}, directed{e.V, e.U})
	}
	keys := make([]int, len(pairs))
	for i, p := range pairs {
		keys[i] = p.u
	}
	parallel.IntegerSort(keys, pairs)

	// Edge-element allocation and edge-map insertion run sequentially:
	// they populate a plain Go map keyed by directed pair, and Go maps
	// are not safe for concurrent writes. This is O(k) bookkeeping, not
	// the parallel bottleneck (the join-decision pass below only reads it;
	// the joins that pass collects run across the pool in BatchJoin).
	edgeElemOf := make(map[directed]*skiplist.Element[T], len(pairs))
	for _, e := range edges {
		uv, vu := t.newEdgePair()
		if err := t.insertEdge(e.U, e.V, uv, vu); err != nil {
			return err
		}
		edgeElemOf[directed{e.U, e.V}] = uv.elem
		edgeElemOf[directed{e.V, e.U}] = vu.elem
	}

	n := len(pairs)
	succ := make([]*skiplist.Element[T], t.n)
	t.list.Pool().For(n, func(i int) {
		isLast := i == n-1 || pairs[i+1].u != pairs[i].u
		if !isLast {
			return
		}
		x := pairs[i].u
		succ[x] = t.vertices[x].GetNextElement()
		skiplist.Split(t.vertices[x])
	})

	joinPairs := make([][2]*skiplist.Element[T], 0, 2*n)
	for i := 0; i < n; i++ {
		x, y := pairs[i].u, pairs[i].v
		isFirst := i == 0 || pairs[i-1].u != x
		isLast := i == n-1 || pairs[i+1].u != x
		fwd := edgeElemOf[directed{x, y}]
		rev := edgeElemOf[directed{y, x}]
		if isFirst {
			joinPairs = append(joinPairs, [2]*skiplist.Element[T]{t.vertices[x], fwd})
		}
		if isLast {
			joinPairs = append(joinPairs, [2]*skiplist.Element[T]{rev, succ[x]})
		} else {
			nextFwd := edgeElemOf[directed{x, pairs[i+1].v}]
			joinPairs = append(joinPairs, [2]*skiplist.Element[T]{rev, nextFwd})
		}
	}

	t.list.BatchJoin(joinPairs)
	t.cfg.meter.RecordLink(context.Background(), int64(k), time.Since(start))
	if t.log != nil {
		t.log.Debug("batch link completed", zap.Int("edges", k))
	}
	return nil
}
