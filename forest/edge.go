package forest

import (
	"sync/atomic"

	"github.com/benz9527/xforest/lib/skiplist"
)

// Edge is an unordered pair of vertex ids.
type Edge struct {
	U, V int
}

// edgeRef is the bookkeeping wrapper around one directed occurrence of an
// edge in the skip-list layer: the augmented element itself, a pointer to
// the occurrence of the opposite direction, and the transient split_mark
// bit BatchCut's bridge resolution reads and writes.
type edgeRef[T any] struct {
	elem      *skiplist.Element[T]
	twin      *edgeRef[T]
	splitMark atomic.Bool
}

// Twin satisfies edgemap.Element so edgeRef can be stored directly in an
// edgemap.Map.
func (r *edgeRef[T]) Twin() *edgeRef[T] {
	return r.twin
}
