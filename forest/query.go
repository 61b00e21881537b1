package forest

import "github.com/benz9527/xforest/lib/skiplist"

// Update writes value to vertex v and repairs augmented aggregates along
// its ancestor chain.
func (t *EulerTourTree[T]) Update(v int, value T) {
	t.list.Update(t.vertices[v], value)
}

// UpdateWithFunction derives vertex v's new value from its current one,
// avoiding a separate GetValue round trip for read-modify-write updates.
func (t *EulerTourTree[T]) UpdateWithFunction(v int, f func(T) T) {
	t.list.Update(t.vertices[v], f(t.vertices[v].Value()))
}

// BatchUpdate writes values[i] to vertex vs[i] for every i and repairs
// augmented aggregates in a single batch-parallel pass.
func (t *EulerTourTree[T]) BatchUpdate(vs []int, values []T) {
	elements := make([]*skiplist.Element[T], len(vs))
	for i, v := range vs {
		elements[i] = t.vertices[v]
	}
	t.list.BatchUpdate(elements, values)
}

// GetValue returns vertex v's current level-0 value.
func (t *EulerTourTree[T]) GetValue(v int) T {
	return t.vertices[v].Value()
}

// GetSum returns the fold of every vertex and edge-occurrence value in
// v's tree.
func (t *EulerTourTree[T]) GetSum(v int) T {
	return t.list.GetSum(t.vertices[v])
}
