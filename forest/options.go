package forest

import (
	"github.com/benz9527/xforest/metrics"
	"github.com/benz9527/xforest/xlog"
)

// Option configures an EulerTourTree at construction. Adapted from the
// teacher's XSklOption/xSklOptions functional-options shape
// (lib/list/x_skl.go), per-instance rather than process-wide so two trees
// in the same process (e.g. in tests) never share configuration.
type Option[T any] func(*config[T])

type config[T any] struct {
	defaultValue T
	aggregate    func(T, T) T
	logger       xlog.XLogger
	meter        *metrics.ForestMeter
	poolSize     int
}

// WithDefaultValue sets the initial value every vertex (and every freshly
// allocated edge occurrence) starts with.
func WithDefaultValue[T any](v T) Option[T] {
	return func(c *config[T]) { c.defaultValue = v }
}

// WithAggregateFunction sets the associative fold used for augmented
// values. Must be associative; need not be commutative.
func WithAggregateFunction[T any](f func(T, T) T) Option[T] {
	return func(c *config[T]) { c.aggregate = f }
}

// WithLogger attaches a structured logger for batch-level diagnostics.
func WithLogger[T any](l xlog.XLogger) Option[T] {
	return func(c *config[T]) { c.logger = l }
}

// WithMeter attaches an OpenTelemetry instrumentation hook.
func WithMeter[T any](m *metrics.ForestMeter) Option[T] {
	return func(c *config[T]) { c.meter = m }
}

// WithPoolSize overrides the backing lib/parallel goroutine pool size
// (default runtime.GOMAXPROCS(0)).
func WithPoolSize[T any](n int) Option[T] {
	return func(c *config[T]) { c.poolSize = n }
}
