package forest

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xforest/lib/parallel"
	"github.com/benz9527/xforest/lib/skiplist"
)

const (
	batchCutSequentialCutoff  = 75
	batchCutIgnoreDenominator = 100
)

// Cut removes the edge {u,v} from the forest, splitting its tree in two.
// Looks the edge up in the edge map (a legitimate error, unlike the rest
// of the hot path, since the lookup is a natural place to detect it
// cheaply): returns ErrForestEdgeNotFound rather than corrupting state if
// the edge is absent.
func (t *EulerTourTree[T]) Cut(u, v int) error {
	start := time.Now()
	if err := t.cutEdge(u, v); err != nil {
		return err
	}
	t.cfg.meter.RecordCut(context.Background(), 1, 0, time.Since(start))
	return nil
}

// cutEdge does Cut's work without reporting to the meter, so BatchCut's
// sequential fallback is counted once, by BatchCut itself.
func (t *EulerTourTree[T]) cutEdge(u, v int) error {
	uv, err := t.findEdge(u, v)
	if err != nil {
		return err
	}
	vu := uv.Twin()
	t.deleteEdge(u, v)

	uvPrev := uv.elem.GetPreviousElement()
	uvNext := uv.elem.GetNextElement()
	vuPrev := vu.elem.GetPreviousElement()
	vuNext := vu.elem.GetNextElement()

	skiplist.Split(uvPrev)
	skiplist.Split(uv.elem)
	skiplist.Split(vuPrev)
	skiplist.Split(vu.elem)

	t.list.BatchJoin([][2]*skiplist.Element[T]{
		{uvPrev, vuNext},
		{vuPrev, uvNext},
	})

	t.releaseEdgePair(uv, vu)
	return nil
}

// BatchCut removes k edges in parallel via a randomized recursive
// algorithm that reaches O(log k) expected recursion depth regardless of
// cut geometry: below a sequential cutoff it falls back to plain Cut;
// above it, each round ignores a fixed fraction of the residual cuts
// (deferred to the next round, bounding any one round's chain length),
// resolves the two bridge joins each surviving cut needs via the
// split_mark/twin walk in resolveJoinTarget, excises both edge occurrences
// in parallel, and recurses on the ignored remainder.
func (t *EulerTourTree[T]) BatchCut(edges []Edge) error {
	start := time.Now()
	depth, err := t.batchCutRound(edges, 0)
	t.cfg.meter.RecordCut(context.Background(), int64(len(edges)), int64(depth), time.Since(start))
	if t.log != nil {
		t.log.Debug("batch cut completed", zap.Int("edges", len(edges)), zap.Int("recursion_depth", depth))
	}
	return err
}

// batchCutRound runs one round of the randomized recursive algorithm and
// returns the recursion depth reached (0 if it bottomed out at the
// sequential cutoff on the first call).
func (t *EulerTourTree[T]) batchCutRound(cuts []Edge, depth int) (int, error) {
	m := len(cuts)
	if m == 0 {
		return depth, nil
	}
	if m <= batchCutSequentialCutoff {
		var errs error
		for _, c := range cuts {
			if err := t.cutEdge(c.U, c.V); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
		return depth, errs
	}

	type resolved struct {
		uv, vu  *edgeRef[T]
		ignored bool
	}
	res := make([]resolved, m)
	// Draw the ignore bits in cut order so a fixed seed reproduces them.
	ignore := make([]bool, m)
	t.rngMu.Lock()
	for i := range ignore {
		ignore[i] = t.rng.Uint64N(batchCutIgnoreDenominator) == 0
	}
	t.rngMu.Unlock()
	t.list.Pool().For(m, func(i int) {
		if ignore[i] {
			res[i] = resolved{ignored: true}
			return
		}
		uv, err := t.findEdge(cuts[i].U, cuts[i].V)
		if err != nil {
			// Missing edge: undefined behavior per the caller contract;
			// defer rather than risk corrupting an unrelated subtree.
			res[i] = resolved{ignored: true}
			return
		}
		vu := uv.Twin()
		uv.splitMark.Store(true)
		vu.splitMark.Store(true)
		res[i] = resolved{uv: uv, vu: vu}
	})

	type joinTargets struct {
		leftA, rightA *skiplist.Element[T]
		leftB, rightB *skiplist.Element[T]
	}
	targets := make([]joinTargets, m)
	t.list.Pool().For(m, func(i int) {
		if res[i].ignored {
			return
		}
		targets[i].leftA, targets[i].rightA = t.resolveJoinTarget(res[i].uv, res[i].vu)
		targets[i].leftB, targets[i].rightB = t.resolveJoinTarget(res[i].vu, res[i].uv)
	})

	splitSet := make([]*skiplist.Element[T], 0, 4*m)
	for i := 0; i < m; i++ {
		if res[i].ignored {
			continue
		}
		uv, vu := res[i].uv, res[i].vu
		splitSet = append(splitSet, uv.elem, vu.elem)
		if p := uv.elem.GetPreviousElement(); p != nil {
			splitSet = append(splitSet, p)
		}
		if p := vu.elem.GetPreviousElement(); p != nil {
			splitSet = append(splitSet, p)
		}
	}
	t.list.Pool().For(len(splitSet), func(i int) { skiplist.Split(splitSet[i]) })

	t.list.Pool().For(m, func(i int) {
		if res[i].ignored {
			return
		}
		x, y := cuts[i].U, cuts[i].V
		t.deleteEdge(x, y)
		t.releaseEdgePair(res[i].uv, res[i].vu)
	})

	joinPairs := make([][2]*skiplist.Element[T], 0, 2*m)
	for i := 0; i < m; i++ {
		if res[i].ignored {
			continue
		}
		if targets[i].leftA != nil && targets[i].rightA != nil {
			joinPairs = append(joinPairs, [2]*skiplist.Element[T]{targets[i].leftA, targets[i].rightA})
		}
		if targets[i].leftB != nil && targets[i].rightB != nil {
			joinPairs = append(joinPairs, [2]*skiplist.Element[T]{targets[i].leftB, targets[i].rightB})
		}
	}
	if len(joinPairs) > 0 {
		t.list.BatchJoin(joinPairs)
	}

	type cutState struct {
		edge    Edge
		ignored bool
	}
	states := make([]cutState, m)
	for i := range cuts {
		states[i] = cutState{edge: cuts[i], ignored: res[i].ignored}
	}
	kept := parallel.Pack(states, func(s cutState) bool { return s.ignored })
	if len(kept) == 0 {
		return depth, nil
	}
	next := make([]Edge, len(kept))
	for i, s := range kept {
		next[i] = s.edge
	}
	return t.batchCutRound(next, depth+1)
}

// resolveJoinTarget computes one of the two bridge joins a cut needs to
// reconnect the tour once uv/vu's occurrences are excised: the element
// before uv (or nil if another cut already owns that boundary), and the
// first non-split-marked element reachable forward from vu, walking
// through any marked bridge via its twin.
func (t *EulerTourTree[T]) resolveJoinTarget(uv, vu *edgeRef[T]) (left, right *skiplist.Element[T]) {
	left = uv.elem.GetPreviousElement()
	if left != nil && t.splitMarked(left) {
		return nil, nil
	}
	right = vu.elem.GetNextElement()
	for right != nil && t.splitMarked(right) {
		right = t.edgeRefFor(right).Twin().elem.GetNextElement()
	}
	return left, right
}
