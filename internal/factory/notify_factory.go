package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/metrics"
	"github.com/mikey/llm-email-categorizer/internal/adapters/notify"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
)

// NotifyFactory creates the topic publisher and failure metrics
type NotifyFactory struct {
	cfg    *config.Config
	aws    *AWSFactory
	logger *zap.Logger
}

// NewNotifyFactory creates a new notify factory
func NewNotifyFactory(cfg *config.Config, aws *AWSFactory, logger *zap.Logger) *NotifyFactory {
	return &NotifyFactory{
		cfg:    cfg,
		aws:    aws,
		logger: logger,
	}
}

// CreatePublisher creates a topic publisher based on the configuration
func (f *NotifyFactory) CreatePublisher(ctx context.Context) (core.Publisher, error) {
	publisherType := f.cfg.GetString("notifier.type")

	switch publisherType {
	case "sns":
		client, err := f.aws.SNS(ctx)
		if err != nil {
			return nil, err
		}
		return notify.NewSNSPublisher(client, f.logger), nil
	case "log":
		return notify.NewLogPublisher(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", publisherType)
	}
}

// CreateMetrics creates a metrics sink based on the configuration
func (f *NotifyFactory) CreateMetrics(ctx context.Context) (core.Metrics, error) {
	metricsType := f.cfg.GetMetrics().Type

	switch metricsType {
	case "cloudwatch":
		client, err := f.aws.CloudWatch(ctx)
		if err != nil {
			return nil, err
		}
		return metrics.NewCloudWatchMetrics(client, f.logger), nil
	case "emf":
		return metrics.NewEMFMetrics(f.logger), nil
	case "log":
		return metrics.NewLogMetrics(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported metrics type: %s", metricsType)
	}
}
