package skiplist

import (
	randv2 "math/rand/v2"

	"github.com/benz9527/xforest/lib/parallel"
)

// Option configures a List at construction. Mirrors the functional
// option style used throughout the teacher corpus (e.g. xlog's
// XLoggerOption), generalized to a generic type parameter.
type Option[T any] func(*config[T])

type config[T any] struct {
	defaultValue T
	aggregate    func(T, T) T
	pool         *parallel.Pool
	seed         uint64
}

// WithDefaultValue sets the value every freshly acquired Element starts
// with at every level.
func WithDefaultValue[T any](v T) Option[T] {
	return func(c *config[T]) { c.defaultValue = v }
}

// WithAggregateFunction sets the associative fold BatchUpdate/GetSum/
// GetSubsequenceSum use to combine values. Must be associative;
// commutativity is not required (GetSum always folds starting from a
// fixed representative, per the contract on GetSum in augmented.go).
func WithAggregateFunction[T any](f func(T, T) T) Option[T] {
	return func(c *config[T]) { c.aggregate = f }
}

// WithPool attaches the goroutine pool batch operations fork onto. If
// omitted, a List builds its own default-sized parallel.Pool.
func WithPool[T any](p *parallel.Pool) Option[T] {
	return func(c *config[T]) { c.pool = p }
}

// WithSeed fixes the seed for this List's height sampler, making its
// structure reproducible across runs.
func WithSeed[T any](seed uint64) Option[T] {
	return func(c *config[T]) { c.seed = seed }
}

// List owns an arena of Element[T]s plus the configuration (default
// value, aggregate function, goroutine pool, seeded height sampler)
// every augmented operation on those elements needs.
type List[T any] struct {
	cfg   config[T]
	rng   *randv2.Rand
	rngMu spinlock
	arena *elementPool[T]
}

// New builds a List sized for roughly capacityHint elements.
func New[T any](capacityHint int, opts ...Option[T]) *List[T] {
	cfg := config[T]{
		aggregate: func(a, _ T) T { return a },
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.pool == nil {
		cfg.pool = parallel.New()
	}
	seed := cfg.seed
	if seed == 0 {
		seed = randv2.Uint64()
	}
	return &List[T]{
		cfg:   cfg,
		rng:   randv2.New(randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		arena: newElementPool[T](capacityHint),
	}
}

// NewElement acquires a fresh Element from the arena, sampling its
// height from the List's seeded geometric(1/2) source.
func (l *List[T]) NewElement() *Element[T] {
	l.rngMu.lock()
	h := sampleHeight(l.rng)
	l.rngMu.unlock()
	return l.arena.acquire(h, l.cfg.defaultValue)
}

// Release returns e to the arena for reuse. The caller must have
// already unlinked e (e.g. via Split) from any list.
func (l *List[T]) Release(e *Element[T]) {
	l.arena.release(e)
}

// Pool exposes the List's goroutine pool, e.g. for the forest layer's
// own BatchLink/BatchCut fan-out.
func (l *List[T]) Pool() *parallel.Pool {
	return l.cfg.pool
}
