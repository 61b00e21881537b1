// Command forestdemo builds a forest.EulerTourTree and runs a
// configurable mix of BatchLink/BatchCut/IsConnected against it, printing
// timing and metrics output. It exists so the module has a runnable main
// package; it is not a rigorous benchmark harness.
package main

import (
	"context"
	"flag"
	randv2 "math/rand/v2"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xforest/forest"
	"github.com/benz9527/xforest/metrics"
	"github.com/benz9527/xforest/xlog"
)

func main() {
	var (
		n        = flag.Int("n", 10_000, "vertex count")
		batch    = flag.Int("batch", 1_000, "edges per BatchLink/BatchCut round")
		rounds   = flag.Int("rounds", 5, "number of link/cut rounds to run")
		seed     = flag.Uint64("seed", 1, "PRNG seed (reproducible runs)")
		poolSize = flag.Int("pool-size", 0, "goroutine pool size (0 = GOMAXPROCS)")
	)
	flag.Parse()

	log := xlog.NewXLogger(
		xlog.WithXLoggerStdOutWriter(),
		xlog.WithXLoggerLevel(xlog.LogLevelInfo),
	)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Logf(zapcore.InfoLevel, format, args...)
	})); err != nil {
		log.ErrorStack(err, "failed to set GOMAXPROCS")
	}

	meter := metrics.NewForestMeter("forestdemo", nil)
	shutdown, err := metrics.NewConsoleExporter(5*time.Second, time.Second)
	if err != nil {
		log.ErrorStack(err, "failed to start metrics exporter")
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	opts := []forest.Option[int]{
		forest.WithDefaultValue[int](1),
		forest.WithAggregateFunction[int](func(a, b int) int { return a + b }),
		forest.WithLogger[int](log),
		forest.WithMeter[int](meter),
	}
	if *poolSize > 0 {
		opts = append(opts, forest.WithPoolSize[int](*poolSize))
	}
	tree := forest.New[int](*n, *seed, opts...)

	rng := randv2.New(randv2.NewPCG(*seed, *seed^1))
	for round := 0; round < *rounds; round++ {
		edges := make([]forest.Edge, 0, *batch)
		// The round's own edges go into a union-find too, so the batch
		// holds no duplicate edge and no cycle among its edges.
		parent := make([]int, *n)
		for i := range parent {
			parent[i] = i
		}
		find := func(x int) int {
			for parent[x] != x {
				parent[x] = parent[parent[x]]
				x = parent[x]
			}
			return x
		}
		for len(edges) < *batch && len(edges) < *n-1 {
			u, v := rng.IntN(*n), rng.IntN(*n)
			if u == v {
				continue
			}
			if ru, rv := find(u), find(v); ru != rv && !tree.IsConnected(u, v) {
				parent[ru] = rv
				edges = append(edges, forest.Edge{U: u, V: v})
			}
		}

		start := time.Now()
		if err := tree.BatchLink(edges); err != nil {
			log.ErrorStack(err, "batch link failed")
			continue
		}
		log.Info("batch link completed",
			zap.Int("round", round),
			zap.Int("edges", len(edges)),
			zap.Duration("elapsed", time.Since(start)),
		)

		start = time.Now()
		if err := tree.BatchCut(edges); err != nil {
			log.ErrorStack(err, "batch cut failed")
			continue
		}
		log.Info("batch cut completed",
			zap.Int("round", round),
			zap.Int("edges", len(edges)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
