// Package forest implements a batch-parallel dynamic forest on top of an
// Euler Tour Tree layered over lib/skiplist's augmented skip list: each
// tree in the forest is represented as one cyclic Euler tour, and
// Link/Cut/BatchLink/BatchCut translate forest-level structural changes
// into Join/Split/BatchJoin/BatchSplit calls on that tour.
package forest

import (
	"context"
	randv2 "math/rand/v2"
	"runtime"
	"sync"

	"github.com/benz9527/xforest/lib/edgemap"
	"github.com/benz9527/xforest/lib/infra"
	"github.com/benz9527/xforest/lib/parallel"
	"github.com/benz9527/xforest/lib/skiplist"
	"github.com/benz9527/xforest/xlog"
)

// EulerTourTree is a dynamic forest over n vertices [0,n), supporting
// logarithmic-expected Link/Cut and batch-parallel BatchLink/BatchCut.
type EulerTourTree[T any] struct {
	cfg config[T]
	n   int

	vertices []*skiplist.Element[T]
	list     *skiplist.List[T]
	edges    *edgemap.Map[*edgeRef[T]]

	edgeRefsMu sync.RWMutex
	edgeRefs   map[*skiplist.Element[T]]*edgeRef[T]

	rngMu sync.Mutex
	rng   *randv2.Rand

	log xlog.XLogger
}

// New builds a forest of n initially-isolated vertices. n must be
// positive; this is the one hot-path precondition cheap enough to check,
// matching the teacher's "can't partially construct" pattern — New panics
// rather than returning a half-built tree.
func New[T any](n int, seed uint64, opts ...Option[T]) *EulerTourTree[T] {
	if n <= 0 {
		panic(infra.WrapErrorStack(ErrForestInvalidSize))
	}
	cfg := config[T]{aggregate: func(a, _ T) T { return a }}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.poolSize <= 0 {
		cfg.poolSize = runtime.GOMAXPROCS(0)
	}

	poolOpts := []parallel.Option{parallel.WithSize(cfg.poolSize)}
	if cfg.logger != nil {
		poolOpts = append(poolOpts, parallel.WithLogger(cfg.logger))
	}
	pool := parallel.New(poolOpts...)

	// 3n-2 elements suffice for a tree on n vertices: n vertex occurrences
	// plus 2(n-1) directed edge occurrences.
	capacityHint := 3*n - 2
	list := skiplist.New[T](capacityHint,
		skiplist.WithDefaultValue[T](cfg.defaultValue),
		skiplist.WithAggregateFunction[T](cfg.aggregate),
		skiplist.WithPool[T](pool),
		skiplist.WithSeed[T](seed),
	)

	t := &EulerTourTree[T]{
		cfg:      cfg,
		n:        n,
		vertices: make([]*skiplist.Element[T], n),
		list:     list,
		edges:    edgemap.New[*edgeRef[T]](n),
		edgeRefs: make(map[*skiplist.Element[T]]*edgeRef[T], 2*(n-1)),
		rng:      randv2.New(randv2.NewPCG(seed, seed)),
		log:      cfg.logger,
	}
	for v := 0; v < n; v++ {
		t.vertices[v] = list.NewElement()
		skiplist.Join(t.vertices[v], t.vertices[v])
	}
	if cfg.logger != nil {
		cfg.logger.Info("forest constructed")
	}
	if cfg.meter != nil {
		cfg.meter.SetVertexCount(context.Background(), int64(n))
	}
	return t
}

// newEdgePair allocates the two twin occurrences Link/BatchLink need for
// one new tree edge, registering both in the edgeRefs lookup BatchCut's
// split_mark resolution walks.
func (t *EulerTourTree[T]) newEdgePair() (uv, vu *edgeRef[T]) {
	uvElem := t.list.NewElement()
	vuElem := t.list.NewElement()
	uv = &edgeRef[T]{elem: uvElem}
	vu = &edgeRef[T]{elem: vuElem}
	uv.twin = vu
	vu.twin = uv

	t.edgeRefsMu.Lock()
	t.edgeRefs[uvElem] = uv
	t.edgeRefs[vuElem] = vu
	t.edgeRefsMu.Unlock()
	return uv, vu
}

// releaseEdgePair returns both occurrences of one edge to the arena and
// drops their edgeRefs registration.
func (t *EulerTourTree[T]) releaseEdgePair(uv, vu *edgeRef[T]) {
	t.edgeRefsMu.Lock()
	delete(t.edgeRefs, uv.elem)
	delete(t.edgeRefs, vu.elem)
	t.edgeRefsMu.Unlock()

	t.list.Release(uv.elem)
	t.list.Release(vu.elem)
}

func (t *EulerTourTree[T]) splitMarked(e *skiplist.Element[T]) bool {
	t.edgeRefsMu.RLock()
	ref, ok := t.edgeRefs[e]
	t.edgeRefsMu.RUnlock()
	return ok && ref.splitMark.Load()
}

func (t *EulerTourTree[T]) edgeRefFor(e *skiplist.Element[T]) *edgeRef[T] {
	t.edgeRefsMu.RLock()
	defer t.edgeRefsMu.RUnlock()
	return t.edgeRefs[e]
}

// insertEdge stores the canonical occurrence of {u,v} (u<v picks uv, else
// vu) into the edge map, per the edge-map contract's fixed orientation.
func (t *EulerTourTree[T]) insertEdge(u, v int, uv, vu *edgeRef[T]) error {
	lo, hi := u, v
	canonical := uv
	if u > v {
		lo, hi = v, u
		canonical = vu
	}
	if err := t.edges.Insert(lo, hi, canonical); err != nil {
		return infra.WrapErrorStackWithMessage(err, "[forest] edge insert failed")
	}
	return nil
}

func (t *EulerTourTree[T]) deleteEdge(u, v int) {
	lo, hi := u, v
	if lo > hi {
		lo, hi = hi, lo
	}
	_, _ = t.edges.Delete(lo, hi)
}

func (t *EulerTourTree[T]) findEdge(u, v int) (*edgeRef[T], error) {
	ref, ok := t.edges.Find(u, v)
	if !ok {
		return nil, infra.WrapErrorStack(ErrForestEdgeNotFound)
	}
	return ref, nil
}

// IsConnected reports whether u and v lie in the same tree.
func (t *EulerTourTree[T]) IsConnected(u, v int) bool {
	return skiplist.FindRepresentative(t.vertices[u]) == skiplist.FindRepresentative(t.vertices[v])
}
