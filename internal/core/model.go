package core

import (
	"fmt"
	"strings"
)

// Urgency is the urgency level the model assigns to an email
type Urgency string

const (
	UrgencyUrgent    Urgency = "urgent"
	UrgencyNonUrgent Urgency = "non-urgent"
)

// CategoryUnknown is used when the model gives no usable category
const CategoryUnknown = "unknown"

// ParseUrgency normalizes a model-provided urgency value. Anything that is not
// "urgent" is treated as non-urgent.
func ParseUrgency(s string) Urgency {
	if strings.EqualFold(strings.TrimSpace(s), string(UrgencyUrgent)) {
		return UrgencyUrgent
	}
	return UrgencyNonUrgent
}

// ObjectRef identifies a raw email document in object storage
type ObjectRef struct {
	Bucket string
	Key    string
}

// EmailRecord represents one extracted email within an invocation
type EmailRecord struct {
	MessageID     string
	Subject       string
	Body          string
	SenderAddress string
}

// batchItem is the serialized shape of an EmailRecord inside a batch prompt
type batchItem struct {
	MessageID string `json:"messageId"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
}

// ClassificationRequest is the rendered input for one model call
type ClassificationRequest struct {
	ModelID      string
	Family       ModelFamily
	Temperature  float64
	Instructions string
	// Payload is the serialized batch of emails
	Payload string
}

// ClassificationResult is the model's verdict for a single email
type ClassificationResult struct {
	Category string  `json:"category"`
	Urgency  Urgency `json:"urgency"`
	Summary  string  `json:"summary"`
}

// Complaint combines an email's metadata with its classification
type Complaint struct {
	MessageID     string  `json:"messageId"`
	Category      string  `json:"category"`
	Urgency       Urgency `json:"urgency"`
	SenderAddress string  `json:"email_address"`
	Timestamp     string  `json:"timestamp"`
	EmailContent  string  `json:"email_content"`
	Summary       string  `json:"summary"`
}

// CategoryTopic maps a category to a notification topic
type CategoryTopic struct {
	Category  string `json:"category" dynamodbav:"category" mapstructure:"category"`
	TopicName string `json:"topicName,omitempty" dynamodbav:"topicName,omitempty" mapstructure:"topic_name"`
	TopicRef  string `json:"topicArn" dynamodbav:"topicArn" mapstructure:"topic_ref"`
}

// PipelineConfig is the per-invocation classification configuration
type PipelineConfig struct {
	ModelID        string
	Family         ModelFamily
	Temperature    float64
	Instructions   string
	CategoryTopics []CategoryTopic
	// ReplyTemplates holds acknowledgement text per category
	ReplyTemplates map[string]string
}

// InvocationReport summarizes a completed invocation
type InvocationReport struct {
	Records         int
	Skipped         int
	Batches         int
	DegradedBatches int
	Dispatched      int
}

// Validate checks that the configuration carries what classification needs
func (c *PipelineConfig) Validate() error {
	if strings.TrimSpace(c.ModelID) == "" {
		return fmt.Errorf("%w: model id is empty", ErrConfigMissing)
	}
	if strings.TrimSpace(c.Instructions) == "" {
		return fmt.Errorf("%w: instructions are empty", ErrConfigMissing)
	}
	if c.Family == "" {
		return fmt.Errorf("%w: model family is not resolved", ErrConfigMissing)
	}
	return nil
}
