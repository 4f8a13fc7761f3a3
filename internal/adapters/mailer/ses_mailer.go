package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// SendEmailAPI is the subset of the SES v2 client used here
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends mail with Amazon SES
type SESMailer struct {
	client SendEmailAPI
	from   string
	logger *zap.Logger
}

var _ core.Mailer = (*SESMailer)(nil)

// NewSESMailer creates a new SES mailer
func NewSESMailer(client SendEmailAPI, from string, logger *zap.Logger) *SESMailer {
	return &SESMailer{
		client: client,
		from:   from,
		logger: logger,
	}
}

// Send sends a simple UTF-8 text message
func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}

	m.logger.Info("Sent acknowledgement",
		zap.String("to", to),
		zap.String("ses_message_id", aws.ToString(out.MessageId)))
	return nil
}
