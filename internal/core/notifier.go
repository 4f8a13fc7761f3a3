package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ResolveTopic returns the topic for a category: the first exact match in the
// ordered mappings, else the "unknown" topic. ErrTopicNotFound if neither exists.
func ResolveTopic(category string, topics []CategoryTopic) (string, error) {
	for _, t := range topics {
		if t.Category == category {
			return t.TopicRef, nil
		}
	}
	for _, t := range topics {
		if t.Category == CategoryUnknown {
			return t.TopicRef, nil
		}
	}
	return "", fmt.Errorf("%w for category %q", ErrTopicNotFound, category)
}

// Notifier routes complaints to category topics
type Notifier struct {
	publisher Publisher
	logger    *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(publisher Publisher, logger *zap.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		logger:    logger,
	}
}

// Notify publishes a complaint to the topic for its category. A missing topic
// is logged and is not an error.
func (n *Notifier) Notify(ctx context.Context, complaint *Complaint, category string, topics []CategoryTopic) error {
	topicRef, err := ResolveTopic(category, topics)
	if err != nil {
		n.logger.Warn("No matching notification topic found",
			zap.String("message_id", complaint.MessageID),
			zap.String("category", category))
		return nil
	}

	message, err := json.Marshal(complaint)
	if err != nil {
		return fmt.Errorf("failed to marshal complaint: %w", err)
	}

	subject := "Email Complaint Categorized: " + category
	if err := n.publisher.Publish(ctx, topicRef, string(message), subject); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topicRef, err)
	}

	n.logger.Info("Published complaint",
		zap.String("message_id", complaint.MessageID),
		zap.String("category", category),
		zap.String("topic", topicRef))
	return nil
}
