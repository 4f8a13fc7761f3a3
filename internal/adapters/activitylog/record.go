package activitylog

import (
	"errors"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// ErrNotFound is returned when no record exists for a message id
var ErrNotFound = errors.New("activity record not found")

// Record is one persisted complaint, keyed by message id
type Record struct {
	MessageKey    string `dynamodbav:"message_id"`
	MessageID     string `dynamodbav:"messageId"`
	Category      string `dynamodbav:"category"`
	Urgency       string `dynamodbav:"urgency"`
	SenderAddress string `dynamodbav:"email_address"`
	Timestamp     string `dynamodbav:"timestamp"`
	EmailContent  string `dynamodbav:"email_content"`
	Summary       string `dynamodbav:"summary"`
}

// NewRecord flattens a complaint into a record stored under messageID
func NewRecord(messageID string, c *core.Complaint) Record {
	return Record{
		MessageKey:    messageID,
		MessageID:     c.MessageID,
		Category:      c.Category,
		Urgency:       string(c.Urgency),
		SenderAddress: c.SenderAddress,
		Timestamp:     c.Timestamp,
		EmailContent:  c.EmailContent,
		Summary:       c.Summary,
	}
}

// Complaint converts the record back into a complaint
func (r Record) Complaint() *core.Complaint {
	return &core.Complaint{
		MessageID:     r.MessageID,
		Category:      r.Category,
		Urgency:       core.Urgency(r.Urgency),
		SenderAddress: r.SenderAddress,
		Timestamp:     r.Timestamp,
		EmailContent:  r.EmailContent,
		Summary:       r.Summary,
	}
}
