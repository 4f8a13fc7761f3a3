package metrics

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// UnitCount is the CloudWatch unit for counters
const UnitCount = "Count"

type metricDef struct {
	Name string `json:"Name"`
	Unit string `json:"Unit"`
}

type cwMetric struct {
	Namespace  string      `json:"Namespace"`
	Dimensions [][]string  `json:"Dimensions"`
	Metrics    []metricDef `json:"Metrics"`
}

type emfDirective struct {
	Timestamp         int64      `json:"Timestamp"`
	CloudWatchMetrics []cwMetric `json:"CloudWatchMetrics"`
}

// EMFMetrics writes counters as CloudWatch Embedded Metric Format lines.
// CloudWatch Logs extracts the metrics from the function's stdout.
type EMFMetrics struct {
	out        io.Writer
	dimensions map[string]string
	logger     *zap.Logger
	now        func() time.Time
	mu         sync.Mutex
}

var _ core.Metrics = (*EMFMetrics)(nil)

// NewEMFMetrics creates an EMF emitter writing to stdout. The Lambda function
// name, when present, is added as the FunctionName dimension.
func NewEMFMetrics(logger *zap.Logger) *EMFMetrics {
	dims := map[string]string{}
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		dims["FunctionName"] = fn
	}
	return NewEMFMetricsWriter(os.Stdout, dims, logger)
}

// NewEMFMetricsWriter creates an EMF emitter writing to out
func NewEMFMetricsWriter(out io.Writer, dimensions map[string]string, logger *zap.Logger) *EMFMetrics {
	return &EMFMetrics{
		out:        out,
		dimensions: dimensions,
		logger:     logger,
		now:        time.Now,
	}
}

// Increment writes one EMF document with a single count metric
func (m *EMFMetrics) Increment(_ context.Context, namespace, metricName string, count float64) {
	dimKeys := make([]string, 0, len(m.dimensions))
	for k := range m.dimensions {
		dimKeys = append(dimKeys, k)
	}
	sort.Strings(dimKeys)

	doc := map[string]interface{}{
		"_aws": emfDirective{
			Timestamp: m.now().UnixMilli(),
			CloudWatchMetrics: []cwMetric{{
				Namespace:  namespace,
				Dimensions: [][]string{dimKeys},
				Metrics:    []metricDef{{Name: metricName, Unit: UnitCount}},
			}},
		},
		metricName: count,
	}
	for k, v := range m.dimensions {
		doc[k] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		m.logger.Error("Failed to marshal EMF document", zap.Error(err))
		return
	}

	// EMF must be a single line
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.out.Write(append(data, '\n')); err != nil {
		m.logger.Error("Failed to write EMF document", zap.Error(err))
	}
}
