package core

import (
	"context"
)

// ModelRuntime sends a family-specific request body to a hosted model
type ModelRuntime interface {
	// Invoke calls the model and returns the raw response body
	Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// ConfigProvider loads the pipeline configuration.
// It returns ErrConfigMissing when no configuration exists.
type ConfigProvider interface {
	GetConfig(ctx context.Context) (*PipelineConfig, error)
}

// ObjectFetcher reads a raw email document from object storage
type ObjectFetcher interface {
	Fetch(ctx context.Context, ref ObjectRef) ([]byte, error)
}

// ContentExtractor parses a raw email document.
// Failures wrap ErrExtraction.
type ContentExtractor interface {
	Extract(raw []byte) (body, sender, subject string, err error)
}

// Publisher delivers a message to a notification topic
type Publisher interface {
	Publish(ctx context.Context, topicRef, message, subject string) error
}

// ActivityLogger persists one complaint record keyed by message id
type ActivityLogger interface {
	Put(ctx context.Context, messageID string, complaint *Complaint) error
}

// Metrics emits fire-and-forget counters
type Metrics interface {
	Increment(ctx context.Context, namespace, metricName string, count float64)
}

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
