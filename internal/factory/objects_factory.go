package factory

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
)

// ObjectsFactory creates raw email object stores
type ObjectsFactory struct {
	aws    *AWSFactory
	logger *zap.Logger
}

// NewObjectsFactory creates a new objects factory
func NewObjectsFactory(aws *AWSFactory, logger *zap.Logger) *ObjectsFactory {
	return &ObjectsFactory{
		aws:    aws,
		logger: logger,
	}
}

// CreateS3Fetcher creates a fetcher reading objects from S3
func (f *ObjectsFactory) CreateS3Fetcher(ctx context.Context) (*objects.S3Fetcher, error) {
	client, err := f.aws.S3(ctx)
	if err != nil {
		return nil, err
	}
	return objects.NewS3Fetcher(client, f.logger), nil
}

// CreateMemoryStore creates an in-process object store
func (f *ObjectsFactory) CreateMemoryStore() *objects.MemoryStore {
	return objects.NewMemoryStore()
}
