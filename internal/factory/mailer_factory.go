package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/mailer"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
)

// MailerFactory creates the acknowledgement mailer
type MailerFactory struct {
	cfg    *config.Config
	aws    *AWSFactory
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, aws *AWSFactory, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		aws:    aws,
		logger: logger,
	}
}

// CreateMailer creates a mailer based on the configuration. It returns nil
// when acknowledgement mail is disabled.
func (f *MailerFactory) CreateMailer(ctx context.Context) (core.Mailer, error) {
	mailCfg := f.cfg.GetMailer()
	if !mailCfg.Enabled {
		return nil, nil
	}
	if mailCfg.From == "" {
		return nil, fmt.Errorf("mailer.from is required when mailer is enabled")
	}

	switch mailCfg.Type {
	case "ses":
		client, err := f.aws.SESv2(ctx)
		if err != nil {
			return nil, err
		}
		return mailer.NewSESMailer(client, mailCfg.From, f.logger), nil
	case "smtp":
		return mailer.NewSMTPMailer(mailCfg.From, mailCfg.SMTPAddress, mailCfg.SMTPPort, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported mailer type: %s", mailCfg.Type)
	}
}
