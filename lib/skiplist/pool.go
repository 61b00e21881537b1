package skiplist

import (
	"runtime"
	"sync/atomic"

	"github.com/benz9527/xforest/lib/id"
	"github.com/benz9527/xforest/lib/infra"
)

// spinlock is the teacher's spinMutex technique (lib/list/x_conc_skl_utils.go)
// stripped of its version-fencing argument: escalating busy-wait via
// infra.ProcYield, falling back to runtime.Gosched() once the backoff
// exceeds a small threshold. It guards the pool's allocation paths (bump
// pointer and chunk growth, free-list push/pop) and List's height
// sampler, each held for a handful of instructions, so spinning beats
// parking a goroutine.
type spinlock struct {
	state atomic.Uint32
}

func (s *spinlock) lock() {
	backoff := uint8(1)
	for !s.state.CompareAndSwap(0, 1) {
		if backoff <= 32 {
			for i := uint8(0); i < backoff; i++ {
				infra.ProcYield(20)
			}
			backoff *= 2
		} else {
			runtime.Gosched()
		}
	}
}

func (s *spinlock) unlock() {
	s.state.Store(0)
}

// chunkLen is the element count per arena chunk. Chunks are appended,
// never reallocated in place, so pointers handed out by acquire remain
// valid for the arena's whole lifetime.
const chunkLen = 1024

// elementPool is the arena Element[T]s are allocated from and returned
// to. Adapted from the teacher's autoGrowthArena
// (lib/list/x_conc_skl_arena.go): a bump-pointer allocator that grows by
// appending a new backing chunk rather than reallocating and copying a
// single byte buffer, and a free list for elements released by Cut/
// BatchCut so a long-running forest doesn't grow its arena unboundedly.
//
// It deliberately stores *Element[T]*, not byte offsets: the teacher's
// arena is byte-oriented because its skip list nodes are variable-width
// (fewer tower slots at higher levels), but an ETT's elements are never
// looked up by a serialized offset, so a typed slice arena is the
// simpler, equally correct choice here.
type elementPool[T any] struct {
	mu     spinlock
	chunks [][]Element[T]
	next   uint64

	freeMu spinlock
	free   []*Element[T]

	// nextID hands out element ids. Backed by the teacher's cache-line
	// padded monotonic generator (lib/id) rather than a bare
	// atomic.Uint64, since ids are read on FindRepresentative's tie-break
	// scan from every goroutine racing acquire concurrently.
	nextID id.Generator
}

func newElementPool[T any](capacityHint int) *elementPool[T] {
	chunks := (capacityHint + chunkLen - 1) / chunkLen
	if chunks < 1 {
		chunks = 1
	}
	gen, _ := id.MonotonicNonZeroID()
	p := &elementPool[T]{chunks: make([][]Element[T], 0, chunks), nextID: gen}
	for i := 0; i < chunks; i++ {
		p.chunks = append(p.chunks, make([]Element[T], chunkLen))
	}
	return p
}

func (p *elementPool[T]) acquire(height int, defaultValue T) *Element[T] {
	var e *Element[T]

	p.freeMu.lock()
	if n := len(p.free); n > 0 {
		e = p.free[n-1]
		p.free = p.free[:n-1]
	}
	p.freeMu.unlock()

	if e == nil {
		p.mu.lock()
		chunkIdx := int(p.next / chunkLen)
		slot := int(p.next % chunkLen)
		for chunkIdx >= len(p.chunks) {
			p.chunks = append(p.chunks, make([]Element[T], chunkLen))
		}
		e = &p.chunks[chunkIdx][slot]
		p.next++
		p.mu.unlock()
	}

	e.id = p.nextID.Number()
	e.height = height
	if cap(e.next) >= height {
		e.next = e.next[:height]
		e.prev = e.prev[:height]
		e.values = e.values[:height]
	} else {
		e.next = make([]*Element[T], height)
		e.prev = make([]*Element[T], height)
		e.values = make([]T, height)
	}
	for i := 0; i < height; i++ {
		e.next[i] = nil
		e.prev[i] = nil
		e.values[i] = defaultValue
	}
	e.updateLevel.Store(NA)
	return e
}

// release returns e to the free list. Callers must ensure e has already
// been fully unlinked (Split'd away from any list) before calling this.
func (p *elementPool[T]) release(e *Element[T]) {
	for i := range e.next {
		e.next[i] = nil
	}
	for i := range e.prev {
		e.prev[i] = nil
	}
	p.freeMu.lock()
	p.free = append(p.free, e)
	p.freeMu.unlock()
}
