package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/config"
)

// AWSFactory loads the AWS configuration once and creates service clients from it
type AWSFactory struct {
	cfg    *config.Config
	logger *zap.Logger

	once   sync.Once
	awsCfg aws.Config
	err    error
}

// NewAWSFactory creates a new AWS factory
func NewAWSFactory(cfg *config.Config, logger *zap.Logger) *AWSFactory {
	return &AWSFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Config returns the shared AWS configuration
func (f *AWSFactory) Config(ctx context.Context) (aws.Config, error) {
	f.once.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if region := f.cfg.GetString("aws.region"); region != "" {
			opts = append(opts, awsconfig.WithRegion(region))
		}
		f.awsCfg, f.err = awsconfig.LoadDefaultConfig(ctx, opts...)
		if f.err != nil {
			f.err = fmt.Errorf("failed to load AWS configuration: %w", f.err)
			return
		}
		f.logger.Debug("Loaded AWS configuration", zap.String("region", f.awsCfg.Region))
	})
	return f.awsCfg, f.err
}

// DynamoDB creates a DynamoDB client
func (f *AWSFactory) DynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	awsCfg, err := f.Config(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

// S3 creates an S3 client
func (f *AWSFactory) S3(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := f.Config(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// SNS creates an SNS client
func (f *AWSFactory) SNS(ctx context.Context) (*sns.Client, error) {
	awsCfg, err := f.Config(ctx)
	if err != nil {
		return nil, err
	}
	return sns.NewFromConfig(awsCfg), nil
}

// CloudWatch creates a CloudWatch client
func (f *AWSFactory) CloudWatch(ctx context.Context) (*cloudwatch.Client, error) {
	awsCfg, err := f.Config(ctx)
	if err != nil {
		return nil, err
	}
	return cloudwatch.NewFromConfig(awsCfg), nil
}

// SESv2 creates an SES v2 client
func (f *AWSFactory) SESv2(ctx context.Context) (*sesv2.Client, error) {
	awsCfg, err := f.Config(ctx)
	if err != nil {
		return nil, err
	}
	return sesv2.NewFromConfig(awsCfg), nil
}
