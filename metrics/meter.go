// Package metrics is the forest's OpenTelemetry instrumentation surface,
// adapted from the teacher's observability package (stats.go, exporter.go):
// the same otel.Meter/lo.Must wiring, repointed from JVM-style app
// goroutine/process gauges to forest-specific batch counters and
// histograms.
package metrics

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ForestMeter holds the instruments a forest.EulerTourTree reports through.
// Built once per tree, or shared across several; the instruments record
// no attributes, so trees sharing one meter report into the same series.
type ForestMeter struct {
	vertices      metric.Int64UpDownCounter
	edges         metric.Int64UpDownCounter
	batchLatency  metric.Float64Histogram
	poolOccupancy metric.Int64ObservableGauge
	recursionDepth metric.Int64Histogram
}

// NewForestMeter builds the instrument set under the given instrumentation
// name (passed straight to otel.Meter, matching the teacher's
// "xboot/app[/name]" naming convention).
func NewForestMeter(name string, poolOccupancy func() int64) *ForestMeter {
	m := otel.Meter(name)
	return &ForestMeter{
		vertices: lo.Must(m.Int64UpDownCounter(
			"forest.vertices",
			metric.WithDescription("Number of vertices currently tracked by the forest."),
		)),
		edges: lo.Must(m.Int64UpDownCounter(
			"forest.edges",
			metric.WithDescription("Number of tree edges currently present in the forest."),
		)),
		batchLatency: lo.Must(m.Float64Histogram(
			"forest.batch.latency",
			metric.WithDescription("Wall-clock duration of a Link/Cut/BatchLink/BatchCut call."),
			metric.WithUnit("ms"),
		)),
		recursionDepth: lo.Must(m.Int64Histogram(
			"forest.batchcut.recursion_depth",
			metric.WithDescription("Recursion depth BatchCut's randomized splitting reached."),
		)),
		poolOccupancy: lo.Must(m.Int64ObservableGauge(
			"forest.pool.occupancy",
			metric.WithDescription("In-flight goroutines on the forest's lib/parallel pool."),
			metric.WithInt64Callback(func(_ context.Context, ob metric.Int64Observer) error {
				if poolOccupancy != nil {
					ob.Observe(poolOccupancy())
				}
				return nil
			}),
		)),
	}
}

// RecordLink adds edgeDelta to the edge counter after a Link/BatchLink
// and records the call's latency.
func (fm *ForestMeter) RecordLink(ctx context.Context, edgeDelta int64, d time.Duration) {
	if fm == nil {
		return
	}
	fm.edges.Add(ctx, edgeDelta)
	fm.batchLatency.Record(ctx, float64(d.Microseconds())/1000.0)
}

// RecordCut mirrors RecordLink for Cut/BatchCut, plus the recursion depth
// BatchCut's randomized splitting reached (0 for a plain Cut).
func (fm *ForestMeter) RecordCut(ctx context.Context, edgeDelta int64, depth int64, d time.Duration) {
	if fm == nil {
		return
	}
	fm.edges.Add(ctx, -edgeDelta)
	fm.recursionDepth.Record(ctx, depth)
	fm.batchLatency.Record(ctx, float64(d.Microseconds())/1000.0)
}

// SetVertexCount reports the forest's fixed vertex count once at
// construction (the vertex set itself never grows or shrinks per the
// data model).
func (fm *ForestMeter) SetVertexCount(ctx context.Context, n int64) {
	if fm == nil {
		return
	}
	fm.vertices.Add(ctx, n)
}
