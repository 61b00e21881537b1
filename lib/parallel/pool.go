// Package parallel supplies the fork/join primitives the augmented
// skip list and Euler tour tree layers dispatch onto: a data-parallel
// For, a two-way fork/join Do, an IntegerSort, and a Pack. For and Do
// are backed by a single bounded ants.Pool so that every batch-parallel
// operation in this module shares one goroutine budget instead of
// spawning unbounded goroutines per call; IntegerSort and Pack run
// sequentially on the calling goroutine.
package parallel

import (
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/benz9527/xforest/lib/infra"
	"github.com/benz9527/xforest/xlog"
)

// Pool wraps an ants.Pool with the fork/join shaped helpers the forest
// and skip-list layers need.
type Pool struct {
	p   *ants.Pool
	log xlog.XLogger
}

type Option func(*poolCfg)

type poolCfg struct {
	size int
	log  xlog.XLogger
}

// WithSize overrides the default pool size (runtime.GOMAXPROCS(0)).
func WithSize(n int) Option {
	return func(c *poolCfg) {
		if n > 0 {
			c.size = n
		}
	}
}

// WithLogger attaches a logger used for pool-level diagnostics (ants's
// own internal errors are routed through it via AntsXLogger).
func WithLogger(l xlog.XLogger) Option {
	return func(c *poolCfg) {
		c.log = l
	}
}

// New builds a goroutine pool sized for batch-parallel fan-out.
func New(opts ...Option) *Pool {
	cfg := &poolCfg{size: runtime.GOMAXPROCS(0)}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.size <= 0 {
		cfg.size = 1
	}
	antsOpts := []ants.Option{ants.WithPreAlloc(true), ants.WithNonblocking(true)}
	if cfg.log != nil {
		antsOpts = append(antsOpts, ants.WithLogger(xlog.NewAntsXLogger(cfg.log)))
	}
	p, err := ants.NewPool(cfg.size, antsOpts...)
	if err != nil {
		panic(infra.WrapErrorStackWithMessage(err, "[parallel] failed to build goroutine pool"))
	}
	return &Pool{p: p, log: cfg.log}
}

// Release tears down the backing pool. Safe to call once at process
// (or test) teardown.
func (pl *Pool) Release() {
	pl.p.Release()
}

// Cap reports how many goroutines the pool may run concurrently.
func (pl *Pool) Cap() int {
	return pl.p.Cap()
}

// For runs fn(i) for every i in [0, n) and waits for all of them to
// finish. It is the bulk-synchronous "parallel_for" primitive every
// batch operation bottoms out on.
func (pl *Pool) For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		if err := pl.p.Submit(func() {
			defer wg.Done()
			fn(i)
		}); err != nil {
			// Pool saturated or closed: run inline rather than drop work.
			wg.Done()
			fn(i)
		}
	}
	wg.Wait()
}

// Do is the two-way fork/join primitive UpdateTopDown forks into above
// the sequential cutoff: left and right run concurrently, Do returns
// once both have completed.
func (pl *Pool) Do(left, right func()) {
	var wg sync.WaitGroup
	wg.Add(1)
	if err := pl.p.Submit(func() {
		defer wg.Done()
		left()
	}); err != nil {
		wg.Done()
		left()
	}
	right()
	wg.Wait()
}

// IntegerSort sorts keys (and permutes vals in lockstep) by key,
// ascending. BatchLink integer-sorts the 2k directed pairs by first
// coordinate; Go's stdlib sort is a perfectly serviceable "integer
// sort" at the batch sizes this module targets (no radix-sort fast
// path is worth the complexity here).
func IntegerSort[V any](keys []int, vals []V) {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })

	sortedKeys := make([]int, len(keys))
	sortedVals := make([]V, len(vals))
	for newPos, oldPos := range idx {
		sortedKeys[newPos] = keys[oldPos]
		sortedVals[newPos] = vals[oldPos]
	}
	copy(keys, sortedKeys)
	copy(vals, sortedVals)
}

// Pack returns the elements of items for which keep reports true,
// preserving order. BatchCut uses it to compact the "ignored" cuts
// before recursing.
func Pack[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
