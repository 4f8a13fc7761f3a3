package objects

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// GetObjectAPI is the subset of the S3 client used here
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher is an S3 implementation of the ObjectFetcher interface
type S3Fetcher struct {
	client GetObjectAPI
	logger *zap.Logger
}

var _ core.ObjectFetcher = (*S3Fetcher)(nil)

// NewS3Fetcher creates a new S3 fetcher
func NewS3Fetcher(client GetObjectAPI, logger *zap.Logger) *S3Fetcher {
	return &S3Fetcher{
		client: client,
		logger: logger,
	}
}

// Fetch downloads a raw email object
func (f *S3Fetcher) Fetch(ctx context.Context, ref core.ObjectRef) ([]byte, error) {
	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("S3 read body: %w", err)
	}

	f.logger.Debug("Fetched email object",
		zap.String("bucket", ref.Bucket),
		zap.String("key", ref.Key),
		zap.Int("size", len(data)))
	return data, nil
}

// RefsFromS3Event converts object-created notifications into object refs.
// Event keys are URL-encoded and are decoded here.
func RefsFromS3Event(event events.S3Event) ([]core.ObjectRef, error) {
	refs := make([]core.ObjectRef, 0, len(event.Records))
	for _, record := range event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid object key %q: %w", record.S3.Object.Key, err)
		}
		refs = append(refs, core.ObjectRef{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
		})
	}
	return refs, nil
}
