package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// PutMetricDataAPI is the subset of the CloudWatch client used here
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics emits counters with PutMetricData
type CloudWatchMetrics struct {
	client PutMetricDataAPI
	logger *zap.Logger
	now    func() time.Time
}

var _ core.Metrics = (*CloudWatchMetrics)(nil)

// NewCloudWatchMetrics creates a new CloudWatch metrics emitter
func NewCloudWatchMetrics(client PutMetricDataAPI, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Increment records a count. Failures are logged and dropped.
func (m *CloudWatchMetrics) Increment(ctx context.Context, namespace, metricName string, count float64) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(count),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(m.now().UTC()),
			},
		},
	})
	if err != nil {
		m.logger.Error("Failed to put metric data",
			zap.String("namespace", namespace),
			zap.String("metric", metricName),
			zap.Error(err))
		return
	}
	m.logger.Debug("Metric emitted",
		zap.String("namespace", namespace),
		zap.String("metric", metricName),
		zap.Float64("count", count))
}
