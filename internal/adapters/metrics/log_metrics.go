package metrics

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// LogMetrics writes counters to the logger
type LogMetrics struct {
	logger *zap.Logger
}

var _ core.Metrics = (*LogMetrics)(nil)

// NewLogMetrics creates a new log metrics emitter
func NewLogMetrics(logger *zap.Logger) *LogMetrics {
	return &LogMetrics{logger: logger}
}

// Increment logs the counter
func (m *LogMetrics) Increment(_ context.Context, namespace, metricName string, count float64) {
	m.logger.Info("Metric",
		zap.String("namespace", namespace),
		zap.String("metric", metricName),
		zap.Float64("count", count))
}
