package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/utils"
)

// snsMaxSubject is the longest subject SNS accepts, in characters
const snsMaxSubject = 99

// PublishAPI is the subset of the SNS client used here
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher is an SNS implementation of the Publisher interface
type SNSPublisher struct {
	client PublishAPI
	logger *zap.Logger
}

var _ core.Publisher = (*SNSPublisher)(nil)

// NewSNSPublisher creates a new SNS publisher
func NewSNSPublisher(client PublishAPI, logger *zap.Logger) *SNSPublisher {
	return &SNSPublisher{
		client: client,
		logger: logger,
	}
}

// Publish sends a message to the topic ARN
func (p *SNSPublisher) Publish(ctx context.Context, topicRef, message, subject string) error {
	subject = utils.TruncateRunes(subject, snsMaxSubject)
	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicRef),
		Message:  aws.String(message),
		Subject:  aws.String(subject),
	})
	if err != nil {
		return fmt.Errorf("SNS Publish: %w", err)
	}

	p.logger.Debug("Published to SNS topic",
		zap.String("topic", topicRef),
		zap.String("sns_message_id", aws.ToString(out.MessageId)))
	return nil
}
