// Package skiplist implements a batch-parallel augmented skip list: a
// tower-of-pointers sequence structure supporting Join/Split on whole
// lists and a per-level aggregate maintained correctly as those lists
// are cut and rejoined. The forest package layers an Euler tour tree on
// top of it; this package knows nothing about vertices, edges, or
// trees, only sequences of Element[T].
//
// Grounded in the teacher's lib/list package (lock discipline, height
// sampling, arena allocation) generalized from a key->value concurrent
// map to a Join/Split sequence, and in original_source's
// augmented_skip_list.hpp for the exact BatchUpdate/BatchJoin/BatchSplit
// bookkeeping. The base Element/FindRepresentative mechanics
// (skip_list_base.hpp in the original source tree) were not part of the
// retrieved pack — only the augmented layer was — so Join/Split/
// FindRepresentative below are an original implementation against the
// contract described for them, documented further in DESIGN.md.
package skiplist

import (
	"sync/atomic"
)

// NA marks updateLevel as "clean": no augmented value below it is stale.
const NA int32 = -1

// Element is one node of a skip-list sequence. height is fixed at
// construction; next/prev/values all have length height. Pointers at
// level i are meaningful only for i < height.
type Element[T any] struct {
	id          uint64
	height      int
	next        []*Element[T]
	prev        []*Element[T]
	values      []T
	updateLevel atomic.Int32
}

// Height reports how many levels this element participates in.
func (e *Element[T]) Height() int { return e.height }

// Value returns the element's own (level-0) value.
func (e *Element[T]) Value() T { return e.values[0] }

// GetNextElement returns the base-level successor, or nil at a list's
// acyclic end.
func (e *Element[T]) GetNextElement() *Element[T] { return e.next[0] }

// GetPreviousElement returns the base-level predecessor, or nil at a
// list's acyclic start.
func (e *Element[T]) GetPreviousElement() *Element[T] { return e.prev[0] }

// climbLeftAncestor starts at e and walks through successive "own top
// level" prev pointers until it finds a node whose height exceeds
// atLeast, i.e. the nearest participant at level atLeast reachable by
// going left from e. Returns nil if the walk runs off the acyclic start
// of a list, or laps all the way back to e without finding one (e lives
// in a closed cyclic list that never gets any taller than e already is).
// The lap is detected against the tallest node visited so far, since
// once the walk has climbed above e's height it never passes e again.
func climbLeftAncestor[T any](e *Element[T], atLeast int) *Element[T] {
	curr, lap := e, e
	for curr != nil && curr.height <= atLeast {
		next := curr.prev[curr.height-1]
		if next == lap {
			return nil
		}
		if next != nil && next.height > lap.height {
			lap = next
		}
		curr = next
	}
	return curr
}

// climbRightAncestor is climbLeftAncestor's mirror image, walking
// through successive "own top level" next pointers.
func climbRightAncestor[T any](e *Element[T], atLeast int) *Element[T] {
	curr, lap := e, e
	for curr != nil && curr.height <= atLeast {
		next := curr.next[curr.height-1]
		if next == lap {
			return nil
		}
		if next != nil && next.height > lap.height {
			lap = next
		}
		curr = next
	}
	return curr
}

// findLeftParent returns the nearest element at or to the left of e,
// found by walking prev pointers at the fixed level, whose height
// exceeds level+1. This is the "block owner" a node's augmented value
// at level+1 is folded into: BatchUpdate's ancestor walk and Update's
// single-point repair both climb the list this way. Guarded the same
// way as climbLeftAncestor against lapping a closed cyclic list back to
// e without ever finding a taller block owner.
func findLeftParent[T any](e *Element[T], level int) *Element[T] {
	curr := e
	for curr != nil && curr.height <= level+1 {
		next := curr.prev[level]
		if next == e {
			return nil
		}
		curr = next
	}
	return curr
}

// Join concatenates the list l lives in to the list r lives in: l must
// be the last node of its list, r must be the first node of its list.
// For each level i = 0, 1, ... while both sides still have a
// participant reachable by climbing (l directly if tall enough, else
// its nearest leftward ancestor; symmetrically for r), that pair is
// stitched together.
//
// Calling Join(l, r) where l and r already live in the same list closes
// it into a cycle.
func Join[T any](l, r *Element[T]) {
	for level := 0; ; level++ {
		left := l
		if left.height <= level {
			left = climbLeftAncestor(left, level)
		}
		if left == nil {
			return
		}
		right := r
		if right.height <= level {
			right = climbRightAncestor(right, level)
		}
		if right == nil {
			return
		}
		left.next[level] = right
		right.prev[level] = left
	}
}

// Split severs the list right after v: v.next[i] and the prev pointer
// of whatever that pointed to are nulled at every level reachable by
// climbing up from v, mirroring Join's left-side walk. v may live in a
// cyclic list (the forest layer splits live tours mid-BatchCut); the
// cycle guard in climbLeftAncestor keeps this from looping forever.
func Split[T any](v *Element[T]) {
	for level := 0; ; level++ {
		curr := v
		if curr.height <= level {
			curr = climbLeftAncestor(curr, level)
		}
		if curr == nil {
			return
		}
		next := curr.next[level]
		curr.next[level] = nil
		if next != nil {
			next.prev[level] = nil
		}
	}
}

// scanLevel walks both directions from start at the given level,
// stopping at a nil neighbor (acyclic end) or upon returning to start
// (a full lap of a cycle), and reports the tallest element seen and the
// element with the smallest id seen (start included in both). Only
// called by FindRepresentative once it has already confirmed start sits
// at the list's top level, where the population is expected O(log n),
// never at an arbitrary level (level 0 alone holds every element).
func scanLevel[T any](start *Element[T], level int) (tallest, minID *Element[T]) {
	tallest, minID = start, start
	wrapped := false
	for curr := start.next[level]; curr != nil; curr = curr.next[level] {
		if curr == start {
			wrapped = true
			break
		}
		if curr.height > tallest.height {
			tallest = curr
		}
		if curr.id < minID.id {
			minID = curr
		}
	}
	if !wrapped {
		for curr := start.prev[level]; curr != nil; curr = curr.prev[level] {
			if curr.height > tallest.height {
				tallest = curr
			}
			if curr.id < minID.id {
				minID = curr
			}
		}
	}
	return tallest, minID
}

// FindRepresentative returns a canonical element of x's list: the same
// element for every x living in that list, regardless of entry point.
//
// It climbs toward the list's tallest participant using only the O(1)
// (in expectation) tower hops climbLeftAncestor/climbRightAncestor
// already provide, never scanning a level's full population: from the
// current candidate, it asks each direction for the nearest strictly
// taller element reachable by walking successive own-top-level
// pointers (climb*Ancestor called with atLeast equal to the
// candidate's own height), and climbs to it when one exists. Once
// neither direction finds anyone taller — the candidate is a
// participant at the list's top level — the walk stops climbing.
// Under geometric(1/2) height sampling the list's top level holds
// O(log n) participants whp, so only then is a bounded scanLevel used,
// to break ties deterministically by minimum id among that top-level
// population (needed for a cyclic list's top cycle, which has no
// "leftmost" element otherwise).
func FindRepresentative[T any](x *Element[T]) *Element[T] {
	best := x
	for {
		if taller := climbRightAncestor(best, best.height); taller != nil {
			best = taller
			continue
		}
		if taller := climbLeftAncestor(best, best.height); taller != nil {
			best = taller
			continue
		}
		break
	}
	_, minID := scanLevel(best, best.height-1)
	return minID
}
