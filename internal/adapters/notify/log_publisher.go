package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// LogPublisher writes notifications to the logger instead of a topic
type LogPublisher struct {
	logger *zap.Logger
}

var _ core.Publisher = (*LogPublisher)(nil)

// NewLogPublisher creates a new log publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the message
func (p *LogPublisher) Publish(_ context.Context, topicRef, message, subject string) error {
	p.logger.Info("Notification",
		zap.String("topic", topicRef),
		zap.String("subject", subject),
		zap.String("message", message))
	return nil
}
